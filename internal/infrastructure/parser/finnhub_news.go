package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
	"StockRadar/internal/scanner"
)

const defaultFinnhubURL = "https://finnhub.io/api/v1"

// FinnhubNewsSource scans the Finnhub general-news feed for catalyst
// headlines, resolves the related ticker's quote, and filters by the
// configured price and change bounds.
type FinnhubNewsSource struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	filter    *KeywordFilter
	store     *dedup.Store
	minPrice  float64
	maxPrice  float64
	minChange float64
	logger    *slog.Logger
	lastScan  time.Time
	now       func() time.Time
}

var _ scanner.Source = (*FinnhubNewsSource)(nil)

// NewFinnhubNewsSource wires the news source; nil client gets a 10s timeout.
func NewFinnhubNewsSource(apiKey string, filter *KeywordFilter, store *dedup.Store,
	minPrice, maxPrice, minChange float64, client *http.Client, logger *slog.Logger) *FinnhubNewsSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FinnhubNewsSource{
		baseURL:   defaultFinnhubURL,
		apiKey:    apiKey,
		client:    client,
		filter:    filter,
		store:     store,
		minPrice:  minPrice,
		maxPrice:  maxPrice,
		minChange: minChange,
		logger:    logger,
		lastScan:  time.Now().Add(-10 * time.Minute),
		now:       time.Now,
	}
}

// Name identifies the source inside the registry.
func (s *FinnhubNewsSource) Name() string { return "finnhub-news" }

// Market tags produced candidates.
func (s *FinnhubNewsSource) Market() domain.Market { return domain.MarketUS }

type finnhubNews struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Related  string `json:"related"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

type finnhubQuote struct {
	Current   float64 `json:"c"`
	PrevClose float64 `json:"pc"`
	Volume    float64 `json:"v"`
}

// Scan fetches recent general news and emits one candidate per important
// headline whose related ticker passes the quote filter.
func (s *FinnhubNewsSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	items, err := s.fetchNews(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Candidate
	for _, news := range items {
		contentKey := fmt.Sprintf("fn_%d_%s", news.ID, truncate(news.Headline, 20))
		if s.store != nil && s.store.SeenContent(contentKey) {
			continue
		}

		published := time.Unix(news.Datetime, 0)
		if published.Before(s.lastScan) {
			continue
		}

		if s.filter != nil && !s.filter.Match(news.Headline+" "+news.Summary) {
			continue
		}
		if news.Related == "" {
			continue
		}

		quote, err := s.fetchQuote(ctx, news.Related)
		if err != nil {
			s.debug("quote lookup failed", "symbol", news.Related, "error", err)
			continue
		}
		if quote == nil {
			continue
		}

		candidates = append(candidates, domain.Candidate{
			Symbol:        news.Related,
			Market:        domain.MarketUS,
			Price:         quote.price,
			ChangePercent: quote.changePct,
			Volume:        quote.volume,
			Trigger:       domain.TriggerNews,
			TriggerReason: truncate(news.Headline, 150),
			Title:         news.Headline,
			NewsURL:       news.URL,
		})
	}

	s.lastScan = s.now()
	return candidates, nil
}

func (s *FinnhubNewsSource) fetchNews(ctx context.Context) ([]finnhubNews, error) {
	endpoint := fmt.Sprintf("%s/news?category=general&token=%s", s.baseURL, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub returned %s", resp.Status)
	}

	var items []finnhubNews
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}

	if len(items) > 30 {
		items = items[:30]
	}
	return items, nil
}

type quoteFacts struct {
	price     float64
	changePct float64
	volume    float64
}

// fetchQuote returns nil (no error) when the quote fails the filter bounds.
func (s *FinnhubNewsSource) fetchQuote(ctx context.Context, symbol string) (*quoteFacts, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		s.baseURL, url.QueryEscape(symbol), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub quote returned %s", resp.Status)
	}

	var quote finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	if quote.Current <= 0 || quote.PrevClose <= 0 {
		return nil, nil
	}
	if quote.Current < s.minPrice || quote.Current > s.maxPrice {
		return nil, nil
	}

	changePct := (quote.Current - quote.PrevClose) / quote.PrevClose * 100
	if math.Abs(changePct) < s.minChange {
		return nil, nil
	}

	return &quoteFacts{price: quote.Current, changePct: changePct, volume: quote.Volume}, nil
}

func (s *FinnhubNewsSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// truncate caps text at limit bytes without splitting a multibyte rune.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
