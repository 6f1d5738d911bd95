package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
	"StockRadar/internal/scanner"
)

const (
	yahooGainersURL   = "https://finance.yahoo.com/markets/stocks/gainers/"
	yahooPreMarketURL = "https://finance.yahoo.com/markets/stocks/pre-market/"

	// Pre-market liquidity is thin, so a much smaller traded value already
	// puts a symbol at the top of the movers table.
	preMarketValueFloor = 2_000_000
	regularValueFloor   = 10_000_000

	gainersMinPrice  = 0.5
	gainersMinChange = 5.0
)

// YahooGainersSource scrapes the Yahoo movers tables for price surges. During
// the New York pre-market window it reads the pre-market table instead of the
// stale regular-session one.
type YahooGainersSource struct {
	regularURL   string
	preMarketURL string
	client       *http.Client
	store        *dedup.Store
	logger       *slog.Logger
	now          func() time.Time
	location     *time.Location
}

var _ scanner.Source = (*YahooGainersSource)(nil)

// NewYahooGainersSource wires an HTTP client; nil gets a 10s timeout default.
func NewYahooGainersSource(client *http.Client, store *dedup.Store, logger *slog.Logger) *YahooGainersSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	ny, _ := time.LoadLocation("America/New_York")
	return &YahooGainersSource{
		regularURL:   yahooGainersURL,
		preMarketURL: yahooPreMarketURL,
		client:       client,
		store:        store,
		logger:       logger,
		now:          time.Now,
		location:     ny,
	}
}

// Name identifies the source inside the registry.
func (s *YahooGainersSource) Name() string { return "yahoo-gainers" }

// Market tags produced candidates.
func (s *YahooGainersSource) Market() domain.Market { return domain.MarketUS }

// Scan picks the table matching the current session and extracts qualifying
// movers.
func (s *YahooGainersSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	target, preMarket := s.sessionTarget()

	doc, err := s.fetchDocument(ctx, target)
	if err != nil {
		return nil, err
	}

	return s.extractMovers(doc, preMarket), nil
}

// sessionTarget returns the movers URL for the current New York session.
func (s *YahooGainersSource) sessionTarget() (string, bool) {
	if s.location == nil {
		return s.regularURL, false
	}
	local := s.now().In(s.location)
	minutes := local.Hour()*60 + local.Minute()
	if minutes >= 4*60 && minutes < 9*60+30 {
		return s.preMarketURL, true
	}
	return s.regularURL, false
}

func (s *YahooGainersSource) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; StockRadar/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request movers table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func (s *YahooGainersSource) extractMovers(doc *goquery.Document, preMarket bool) []domain.Candidate {
	var candidates []domain.Candidate

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 6 {
			return
		}

		symbolCell := cols.Eq(0).Find(".symbol").First()
		if symbolCell.Length() == 0 {
			symbolCell = cols.Eq(0)
		}
		symbol := strings.Fields(strings.TrimSpace(symbolCell.Text()))
		if len(symbol) == 0 {
			return
		}

		price, err := parseNumber(cols.Eq(1).Text())
		if err != nil || price < gainersMinPrice {
			return
		}

		changePct, err := parsePercent(cols.Eq(3).Text())
		if err != nil || changePct < gainersMinChange {
			return
		}

		volume := parseVolume(cols.Eq(5).Text())
		tradeValue := price * volume

		floor := float64(regularValueFloor)
		if preMarket {
			floor = preMarketValueFloor
		}
		if tradeValue < floor {
			return
		}

		// Re-alert only once the move grows by another 2% bucket.
		bucketKey := fmt.Sprintf("yahoo_%s_%d", symbol[0], int(changePct/2))
		if s.store != nil && s.store.SeenContent(bucketKey) {
			return
		}

		candidates = append(candidates, domain.Candidate{
			Symbol:        symbol[0],
			Market:        domain.MarketUS,
			Price:         price,
			ChangePercent: changePct,
			Volume:        volume,
			TradeValue:    tradeValue,
			Trigger:       domain.TriggerPriceSurge,
			TriggerReason: surgeReason(changePct, tradeValue, preMarket),
		})
	})

	return candidates
}

func surgeReason(changePct, tradeValue float64, preMarket bool) string {
	label := "🌕[regular]"
	if preMarket {
		label = "☀️[pre-market]"
	}

	var verdict string
	switch {
	case changePct >= 100:
		verdict = fmt.Sprintf("%s doubled! +%.1f%%", label, changePct)
	case changePct >= 50:
		verdict = fmt.Sprintf("%s violent surge +%.1f%%", label, changePct)
	case changePct >= 20:
		verdict = fmt.Sprintf("%s surge detected +%.1f%%", label, changePct)
	default:
		verdict = fmt.Sprintf("%s breakout starting +%.1f%%", label, changePct)
	}

	return fmt.Sprintf("%s (traded $%dM)", verdict, int(tradeValue/1_000_000))
}

func parseNumber(text string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

func parsePercent(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.ReplaceAll(cleaned, "+", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

// parseVolume understands Yahoo's abbreviated counts ("3.5M", "120K", "1.2B").
func parseVolume(text string) float64 {
	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "B"):
		multiplier = 1_000_000_000
		cleaned = strings.TrimSuffix(cleaned, "B")
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "K"):
		multiplier = 1_000
		cleaned = strings.TrimSuffix(cleaned, "K")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}
