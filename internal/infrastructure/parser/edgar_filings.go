package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
	"StockRadar/internal/scanner"
)

const (
	edgarBrowseURL = "https://www.sec.gov/cgi-bin/browse-edgar"

	insiderWindow   = 6 * time.Hour
	ownershipWindow = 12 * time.Hour

	insiderPriority = 7
)

var tickerExpr = regexp.MustCompile(`\(([A-Z]{1,5})\)`)

// famousInvestors maps name fragments in filing titles to activist investors
// whose positions deserve an immediate priority boost.
var famousInvestors = map[string]string{
	"ICAHN":       "🐋 Carl Icahn",
	"ACKMAN":      "🐋 Bill Ackman (Pershing Square)",
	"EINHORN":     "🐋 David Einhorn (Greenlight)",
	"STARBOARD":   "🐋 Starboard Value",
	"ELLIOTT":     "🐋 Elliott Management",
	"VALUEACT":    "🐋 ValueAct Capital",
	"JANA":        "🐋 Jana Partners",
	"THIRD POINT": "🐋 Third Point (Dan Loeb)",
	"PERSHING":    "🐋 Pershing Square",
}

// EdgarSource polls a SEC EDGAR Atom feed for fresh filings. Two concrete
// configurations exist: the Form 4 insider-trade feed and the unfiltered
// current feed scanned for 13D/G ownership stakes.
type EdgarSource struct {
	name     string
	feedURL  string
	window   time.Duration
	classify func(title string) (domain.Trigger, string, int, bool)
	parser   *gofeed.Parser
	store    *dedup.Store
	logger   *slog.Logger
	now      func() time.Time
}

var _ scanner.Source = (*EdgarSource)(nil)

// NewInsiderSource watches Form 4 executive/major-holder trade filings.
func NewInsiderSource(store *dedup.Store, logger *slog.Logger) *EdgarSource {
	return &EdgarSource{
		name:    "edgar-insider",
		feedURL: edgarFeedURL("4"),
		window:  insiderWindow,
		classify: func(string) (domain.Trigger, string, int, bool) {
			return domain.TriggerInsiderFiling, "👔 executive/major-holder trade filed (Form 4)", insiderPriority, true
		},
		parser: gofeed.NewParser(),
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// NewOwnershipSource watches the current-filings feed for 13D/G stakes.
func NewOwnershipSource(store *dedup.Store, logger *slog.Logger) *EdgarSource {
	return &EdgarSource{
		name:     "edgar-ownership",
		feedURL:  edgarFeedURL(""),
		window:   ownershipWindow,
		classify: classifyOwnership,
		parser:   gofeed.NewParser(),
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

func edgarFeedURL(formType string) string {
	query := url.Values{}
	query.Set("action", "getcurrent")
	query.Set("type", formType)
	query.Set("owner", "include")
	query.Set("count", "100")
	query.Set("output", "atom")
	return edgarBrowseURL + "?" + query.Encode()
}

// Name identifies the source inside the registry.
func (s *EdgarSource) Name() string { return s.name }

// Market tags produced candidates.
func (s *EdgarSource) Market() domain.Market { return domain.MarketUS }

// Scan parses the Atom feed and emits one candidate per fresh, classifiable
// filing. Filings carry no price context; the analysis gateway fills that gap.
func (s *EdgarSource) Scan(ctx context.Context) ([]domain.Candidate, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse edgar feed: %w", err)
	}

	var candidates []domain.Candidate
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		if s.store != nil && s.store.SeenContent(item.Link) {
			continue
		}

		if item.UpdatedParsed == nil || s.now().Sub(*item.UpdatedParsed) > s.window {
			continue
		}

		trigger, reason, priority, ok := s.classify(item.Title)
		if !ok {
			continue
		}

		ticker := extractTicker(item.Title)
		if ticker == "" {
			continue
		}

		if name, found := matchFamousInvestor(item.Title); found {
			reason = name + "\n" + reason
			priority += 3
		}

		candidates = append(candidates, domain.Candidate{
			Symbol:        ticker,
			Market:        domain.MarketUS,
			Trigger:       trigger,
			TriggerReason: reason,
			Title:         item.Title,
			NewsURL:       item.Link,
			Priority:      priority,
		})
	}

	return candidates, nil
}

// classifyOwnership maps 13D/G variants to their urgency. Amended 13Ds mean
// an activist is adding to a stake, the strongest variant.
func classifyOwnership(title string) (domain.Trigger, string, int, bool) {
	switch {
	case strings.Contains(title, "SC 13D/A"):
		return domain.TriggerOwnershipFiling, "🔥 SC 13D/A (stake increased)", 10, true
	case strings.Contains(title, "SC 13D"):
		return domain.TriggerOwnershipFiling, "⚡ SC 13D (activist stake)", 9, true
	case strings.Contains(title, "SC 13G/A"):
		return domain.TriggerOwnershipFiling, "📈 SC 13G/A (stake changed)", 7, true
	case strings.Contains(title, "SC 13G"):
		return domain.TriggerOwnershipFiling, "📊 SC 13G (5% stake disclosed)", 6, true
	default:
		return "", "", 0, false
	}
}

func extractTicker(title string) string {
	match := tickerExpr.FindStringSubmatch(title)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func matchFamousInvestor(title string) (string, bool) {
	upper := strings.ToUpper(title)
	for fragment, name := range famousInvestors {
		if strings.Contains(upper, fragment) {
			return name, true
		}
	}
	return "", false
}
