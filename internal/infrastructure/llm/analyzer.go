package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"StockRadar/internal/domain"
	"StockRadar/internal/ports"
)

// Analyzer implements ports.Analyzer over an ordered list of model providers.
// Providers are tried best-first; the first successfully parsed response wins
// and no further models are attempted. When every provider fails, Assess
// degrades to the fixed fallback assessment instead of returning an error.
type Analyzer struct {
	providers []Provider
	fetcher   *ArticleFetcher
	logger    *slog.Logger
}

var _ ports.Analyzer = (*Analyzer)(nil)

// NewAnalyzer wires the fallback chain and the optional article fetcher.
func NewAnalyzer(providers []Provider, fetcher *ArticleFetcher, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		providers: providers,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// Assess builds the analysis prompt for the candidate and walks the provider
// chain. Never fails.
func (a *Analyzer) Assess(ctx context.Context, candidate domain.Candidate) domain.Assessment {
	articleBody := "no link provided"
	if a.fetcher != nil && candidate.NewsDerived() && candidate.NewsURL != "" {
		articleBody = a.fetcher.Fetch(ctx, candidate.NewsURL)
	}

	prompt := buildPrompt(candidate, articleBody)

	for _, provider := range a.providers {
		text, err := provider.Generate(ctx, prompt)
		if err != nil {
			a.warn("model attempt failed", "model", provider.Model(), "error", err)
			continue
		}

		raw, err := parseAssessment(text)
		if err != nil {
			a.warn("model attempt failed",
				"model", provider.Model(),
				"error", &MalformedResponseError{Model: provider.Model(), Cause: err})
			continue
		}

		return normalize(raw, candidate)
	}

	a.warn("all models exhausted", "symbol", candidate.Symbol)
	return domain.Fallback()
}

func (a *Analyzer) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func buildPrompt(candidate domain.Candidate, articleBody string) string {
	var b strings.Builder

	b.WriteString("Act as a Wall Street hedge fund manager. Analyze this stock opportunity.\n\n")
	b.WriteString("[Target Info]\n")
	fmt.Fprintf(&b, "- Ticker: %s\n", candidate.DisplayName())
	fmt.Fprintf(&b, "- Market: %s\n", candidate.Market)
	if candidate.HasPrice() {
		fmt.Fprintf(&b, "- Price: %.2f\n", candidate.Price)
		fmt.Fprintf(&b, "- Change: %.2f%%\n", candidate.ChangePercent)
	} else {
		b.WriteString("- Price: N/A\n")
	}
	if candidate.Volume > 0 {
		fmt.Fprintf(&b, "- Volume: %.0f\n", candidate.Volume)
	}
	if candidate.Title != "" {
		fmt.Fprintf(&b, "- Headline: %s\n", candidate.Title)
	}
	fmt.Fprintf(&b, "- Reason: %s\n", candidate.TriggerReason)

	b.WriteString("\n[News Body Context]\n")
	b.WriteString(articleBody)

	b.WriteString("\n\n[Task]\n")
	b.WriteString("1. Read the news body context carefully. Look for hard catalysts: FDA approval, government contract, takeover, earnings beat.\n")
	b.WriteString("2. Evaluate whether this is a real catalyst for outsized gains or just noise.\n")
	b.WriteString("3. Score 1-10 for short-term profit potential.\n")

	b.WriteString("\n[Output Format]\n")
	b.WriteString("Provide ONLY a JSON object:\n")
	b.WriteString(`{
  "score": <number 1-10>,
  "summary": "<one line summary>",
  "reasoning": "<analysis based on the body text, under 3 sentences>",
  "risk_level": "<Low/Medium/High/Extreme>",
  "recommendation": "<Buy/Wait/Sell>",
  "entry_price": <number or 0>,
  "target_price": <number or 0>,
  "stop_loss": <number or 0>,
  "upside": <expected upside percentage>,
  "risk": <expected risk percentage>,
  "position_size": <recommended percentage 5-100>
}`)

	return b.String()
}
