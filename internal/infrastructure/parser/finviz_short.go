package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"StockRadar/internal/domain"
	"StockRadar/internal/scanner"
)

const (
	// Screener preset: short float over 30%.
	finvizScreenerURL = "https://finviz.com/screener.ashx?v=111&f=sh_short_o30"

	shortFloatFloor = 30.0
	squeezeMinRise  = 3.0
	squeezePriority = 8
	screenerRowCap  = 20
)

// FinvizShortSource screens for heavily shorted symbols already moving up,
// the classic short-squeeze setup.
type FinvizShortSource struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

var _ scanner.Source = (*FinvizShortSource)(nil)

// NewFinvizShortSource wires an HTTP client; nil gets a 15s timeout default.
func NewFinvizShortSource(client *http.Client, logger *slog.Logger) *FinvizShortSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &FinvizShortSource{url: finvizScreenerURL, client: client, logger: logger}
}

// Name identifies the source inside the registry.
func (s *FinvizShortSource) Name() string { return "finviz-short" }

// Market tags produced candidates.
func (s *FinvizShortSource) Market() domain.Market { return domain.MarketUS }

// Scan parses the screener table and emits squeeze candidates.
func (s *FinvizShortSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; StockRadar/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request screener: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finviz returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return s.extractRows(doc), nil
}

func (s *FinvizShortSource) extractRows(doc *goquery.Document) []domain.Candidate {
	table := doc.Find("table.screener_table").First()
	if table.Length() == 0 {
		table = doc.Find("table#screener-table").First()
	}
	if table.Length() == 0 {
		s.debug("screener table not found")
		return nil
	}

	var candidates []domain.Candidate
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || i > screenerRowCap {
			return
		}

		cols := row.Find("td")
		if cols.Length() < 12 {
			return
		}

		symbol := strings.TrimSpace(cols.Eq(1).Text())
		if symbol == "" {
			return
		}

		price, err := parseNumber(cols.Eq(6).Text())
		if err != nil {
			price = 0
		}

		shortFloat, err := parsePercent(cols.Eq(9).Text())
		if err != nil || shortFloat < shortFloatFloor {
			return
		}

		changePct, err := parsePercent(cols.Eq(10).Text())
		if err != nil || changePct < squeezeMinRise {
			return
		}

		candidates = append(candidates, domain.Candidate{
			Symbol:        symbol,
			Market:        domain.MarketUS,
			Price:         price,
			ChangePercent: changePct,
			Trigger:       domain.TriggerShortSqueeze,
			TriggerReason: fmt.Sprintf("💎 squeeze setup (short float %.0f%% and %+.1f%% up)", shortFloat, changePct),
			Priority:      squeezePriority,
		})
	})

	return candidates
}

func (s *FinvizShortSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
