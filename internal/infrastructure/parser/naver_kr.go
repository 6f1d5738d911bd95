package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
	"StockRadar/internal/scanner"
)

const (
	naverNewsURL  = "https://finance.naver.com/news/news_list.naver?mode=LSS2D&section_id=101&section_id2=258"
	naverQuantURL = "https://finance.naver.com/sise/sise_quant.naver"
	naverItemURL  = "https://finance.naver.com/item/main.naver?code="

	krMinPrice        = 1_000
	krMaxPrice        = 100_000
	krMinChange       = 4.0
	krMinTradeValue   = 50   // in 100M KRW units
	krLargeCapCutoff  = 8000 // in 100M KRW units
	krLargeCapMinFlow = 2000 // heavyweights need a much bigger traded value
	krNewsHeadlineCap = 15
)

var (
	stockCodeExpr = regexp.MustCompile(`code=(\d+)`)
	nonDigitExpr  = regexp.MustCompile(`\D`)
)

// NaverNewsSource surfaces featured-stock headlines from the Naver finance
// news list. Headlines carry no price facts, so downstream they ride the
// fast path straight to dispatch.
type NaverNewsSource struct {
	url    string
	client *http.Client
	filter *KeywordFilter
	store  *dedup.Store
	logger *slog.Logger
}

var _ scanner.Source = (*NaverNewsSource)(nil)

// NewNaverNewsSource wires the headline scanner.
func NewNaverNewsSource(filter *KeywordFilter, store *dedup.Store, client *http.Client, logger *slog.Logger) *NaverNewsSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NaverNewsSource{
		url:    naverNewsURL,
		client: client,
		filter: filter,
		store:  store,
		logger: logger,
	}
}

// Name identifies the source inside the registry.
func (s *NaverNewsSource) Name() string { return "naver-news" }

// Market tags produced candidates.
func (s *NaverNewsSource) Market() domain.Market { return domain.MarketKR }

// Scan extracts important headlines not yet seen.
func (s *NaverNewsSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	doc, err := fetchNaverDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	headlines := doc.Find("dl.articleList dd.articleSubject a")
	if headlines.Length() == 0 {
		headlines = doc.Find("ul.realtimeNewsList dl dd.articleSubject a")
	}
	if headlines.Length() == 0 {
		headlines = doc.Find("dt.articleSubject a")
	}

	var candidates []domain.Candidate
	headlines.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= krNewsHeadlineCap {
			return false
		}

		title, _ := sel.Attr("title")
		if title == "" {
			title = strings.TrimSpace(sel.Text())
		}
		if title == "" {
			return true
		}

		link, _ := sel.Attr("href")
		if link == "" {
			return true
		}
		if !strings.HasPrefix(link, "http") {
			link = "https://finance.naver.com" + link
		}

		if s.store != nil && s.store.SeenContent(link) {
			return true
		}
		if s.filter != nil && !s.filter.Match(title) {
			return true
		}

		candidates = append(candidates, domain.Candidate{
			Symbol:        "KR_NEWS",
			Market:        domain.MarketKR,
			Trigger:       domain.TriggerNewsSentiment,
			TriggerReason: "📰 featured-stock headline",
			Title:         title,
			NewsURL:       link,
		})
		return true
	})

	return candidates, nil
}

// NaverSurgeSource scans the Naver volume-leader board for light, fast-moving
// names, with a market-cap second-stage filter that rejects heavyweights
// unless their traded value is exceptional.
type NaverSurgeSource struct {
	url      string
	itemURL  string
	client   *http.Client
	cooldown time.Duration
	// recent is source-local so the per-code cooldown does not interfere
	// with the orchestration-level subject cooldown.
	recent *dedup.Store
	logger *slog.Logger
}

var _ scanner.Source = (*NaverSurgeSource)(nil)

// NewNaverSurgeSource wires the volume-leader scanner.
func NewNaverSurgeSource(cooldown time.Duration, client *http.Client, logger *slog.Logger) *NaverSurgeSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NaverSurgeSource{
		url:      naverQuantURL,
		itemURL:  naverItemURL,
		client:   client,
		cooldown: cooldown,
		recent:   dedup.NewStore(0),
		logger:   logger,
	}
}

// Name identifies the source inside the registry.
func (s *NaverSurgeSource) Name() string { return "naver-surge" }

// Market tags produced candidates.
func (s *NaverSurgeSource) Market() domain.Market { return domain.MarketKR }

// Scan walks the volume-leader table and emits qualifying surges.
func (s *NaverSurgeSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	doc, err := fetchNaverDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Candidate
	doc.Find("table.type_2 tr").Each(func(i int, row *goquery.Selection) {
		if i < 2 || i >= 100 {
			return
		}

		cols := row.Find("td")
		if cols.Length() < 12 {
			return
		}

		nameLink := cols.Eq(1).Find("a").First()
		if nameLink.Length() == 0 {
			return
		}
		name := strings.TrimSpace(nameLink.Text())

		href, _ := nameLink.Attr("href")
		codeMatch := stockCodeExpr.FindStringSubmatch(href)
		if len(codeMatch) < 2 {
			return
		}
		code := codeMatch[1]

		price, err := parseNumber(cols.Eq(2).Text())
		if err != nil || price < krMinPrice || price > krMaxPrice {
			return
		}

		changePct, err := parsePercent(cols.Eq(4).Text())
		if err != nil || changePct < krMinChange {
			return
		}

		volume, err := parseNumber(cols.Eq(6).Text())
		if err != nil {
			return
		}

		tradeValue := price * volume / 100_000_000 // 100M KRW units
		if tradeValue < krMinTradeValue {
			return
		}

		if !s.recent.ShouldAlert("KR", code, s.cooldown) {
			return
		}

		marketCap := s.fetchMarketCap(ctx, code)
		if marketCap > krLargeCapCutoff && tradeValue < krLargeCapMinFlow {
			return
		}

		candidates = append(candidates, domain.Candidate{
			Symbol:        code,
			Name:          name,
			Market:        domain.MarketKR,
			Price:         price,
			ChangePercent: changePct,
			Volume:        volume,
			TradeValue:    tradeValue,
			Trigger:       domain.TriggerPriceSurge,
			TriggerReason: fmt.Sprintf("💎 light mover (cap %d00M KRW)\n💰 %d00M KRW traded (%+.1f%%)", int(marketCap), int(tradeValue), changePct),
			NewsURL:       s.itemURL + code,
		})
	})

	return candidates, nil
}

// fetchMarketCap reads the per-symbol page; failure returns a sentinel large
// value so dubious symbols fall into the stricter traded-value branch.
func (s *NaverSurgeSource) fetchMarketCap(ctx context.Context, code string) float64 {
	const unknownCap = 999_999

	doc, err := fetchNaverDocument(ctx, s.client, s.itemURL+code)
	if err != nil {
		return unknownCap
	}

	cell := doc.Find("#_market_sum").First()
	if cell.Length() == 0 {
		return unknownCap
	}

	return parseKoreanCap(cell.Text())
}

// parseKoreanCap converts a market-cap string in 100M-won units, where the
// "조" character separates trillions from billions ("1조 2,345").
func parseKoreanCap(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	digitsOnly := func(v string) float64 {
		cleaned := nonDigitExpr.ReplaceAllString(v, "")
		if cleaned == "" {
			return 0
		}
		n, _ := strconv.ParseFloat(cleaned, 64)
		return n
	}

	if strings.Contains(text, "조") {
		parts := strings.SplitN(text, "조", 2)
		total := digitsOnly(parts[0]) * 10_000
		if len(parts) > 1 {
			total += digitsOnly(parts[1])
		}
		return total
	}
	return digitsOnly(text)
}

func fetchNaverDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; StockRadar/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver returned %s", resp.Status)
	}

	// finance.naver.com serves EUC-KR; decode to UTF-8 before parsing.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
