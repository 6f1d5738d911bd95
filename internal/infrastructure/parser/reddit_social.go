package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
	"StockRadar/internal/scanner"
)

const (
	redditBaseURL   = "https://www.reddit.com"
	redditPostCap   = 50
	mentionWindow   = time.Hour
	socialSymbolMin = 2
	socialSymbolMax = 5
)

var symbolExpr = regexp.MustCompile(`\$?([A-Z]{2,5})\b`)

// redditStopWords are uppercase tokens that look like tickers but are plain
// forum vocabulary.
var redditStopWords = map[string]bool{
	"THE": true, "AND": true, "OR": true, "NOT": true, "BUT": true, "FOR": true,
	"ARE": true, "WAS": true, "WERE": true, "YOLO": true, "DD": true, "TA": true,
	"CEO": true, "CFO": true, "IPO": true, "ATH": true, "ATL": true, "MOON": true,
	"HOLD": true, "LONG": true, "SHORT": true, "CALL": true, "PUT": true,
	"BUY": true, "SELL": true, "GOOD": true, "BEST": true, "HUGE": true,
	"FROM": true, "THIS": true, "THAT": true, "WHAT": true, "WHEN": true,
	"WHERE": true, "WHO": true, "WHY": true, "HOW": true, "JUST": true,
	"LIKE": true, "MAKE": true, "TIME": true, "YEAR": true, "WEEK": true,
	"HAVE": true,
}

// RedditSocialSource counts fresh ticker mentions on a subreddit and surfaces
// symbols trending past the configured floor. Candidates carry no price; the
// analysis gateway judges whether the chatter is substantive.
type RedditSocialSource struct {
	baseURL     string
	subreddit   string
	minMentions int
	client      *http.Client
	store       *dedup.Store
	logger      *slog.Logger
	now         func() time.Time
}

var _ scanner.Source = (*RedditSocialSource)(nil)

// NewRedditSocialSource wires the mention counter; nil client gets a 10s
// timeout default.
func NewRedditSocialSource(subreddit string, minMentions int, client *http.Client,
	store *dedup.Store, logger *slog.Logger) *RedditSocialSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if subreddit == "" {
		subreddit = "wallstreetbets"
	}
	return &RedditSocialSource{
		baseURL:     redditBaseURL,
		subreddit:   subreddit,
		minMentions: minMentions,
		client:      client,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// Name identifies the source inside the registry.
func (s *RedditSocialSource) Name() string { return "reddit-" + s.subreddit }

// Market tags produced candidates.
func (s *RedditSocialSource) Market() domain.Market { return domain.MarketUS }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Scan tallies mentions across new posts and emits a candidate per symbol
// whose count crosses the floor.
func (s *RedditSocialSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new.json", s.baseURL, s.subreddit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "StockRadar/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch subreddit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned %s", resp.Status)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	mentions := s.countMentions(listing)

	type entry struct {
		symbol string
		count  int
	}
	var ranked []entry
	for symbol, count := range mentions {
		if count >= s.minMentions {
			ranked = append(ranked, entry{symbol, count})
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	var candidates []domain.Candidate
	for _, e := range ranked {
		candidates = append(candidates, domain.Candidate{
			Symbol:        e.symbol,
			Market:        domain.MarketUS,
			Trigger:       domain.TriggerSocialTrend,
			TriggerReason: fmt.Sprintf("🔥 %d Reddit mentions in the last hour (r/%s)", e.count, s.subreddit),
		})
	}
	return candidates, nil
}

func (s *RedditSocialSource) countMentions(listing redditListing) map[string]int {
	mentions := map[string]int{}
	cutoff := s.now().Add(-mentionWindow)

	posts := listing.Data.Children
	if len(posts) > redditPostCap {
		posts = posts[:redditPostCap]
	}

	for _, post := range posts {
		data := post.Data
		if s.store != nil && s.store.SeenContent("reddit_"+data.ID) {
			continue
		}
		if time.Unix(int64(data.CreatedUTC), 0).Before(cutoff) {
			continue
		}

		for _, ticker := range extractSymbols(data.Title + " " + data.SelfText) {
			mentions[ticker]++
		}
	}
	return mentions
}

func extractSymbols(text string) []string {
	matches := symbolExpr.FindAllStringSubmatch(strings.ToUpper(text), -1)

	var symbols []string
	for _, match := range matches {
		token := match[1]
		if redditStopWords[token] {
			continue
		}
		if len(token) < socialSymbolMin || len(token) > socialSymbolMax {
			continue
		}
		symbols = append(symbols, token)
	}
	return symbols
}
