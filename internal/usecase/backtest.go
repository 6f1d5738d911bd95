package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"StockRadar/internal/domain"
	"StockRadar/internal/ports"
)

const (
	// A pick counts as a win once it gained 20% from the alert price.
	backtestWinThreshold = 20.0
	backtestHighScore    = 8.0
	backtestBatchLimit   = 100
)

// QuoteFunc resolves the current price for a symbol, used to grade past
// alerts against where the stock actually went.
type QuoteFunc func(ctx context.Context, market domain.Market, symbol string) (float64, error)

// Backtest grades alerts that have had enough market time to play out.
type Backtest struct {
	history  ports.AlertHistory
	quote    QuoteFunc
	maturity time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// BacktestReport aggregates graded alerts.
type BacktestReport struct {
	Total         int
	Wins          int
	AvgGain       float64
	HighScoreHits int
	HighScoreWins int
}

// WinRate is the share of graded alerts that crossed the win threshold.
func (r BacktestReport) WinRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Total) * 100
}

// HighScoreAccuracy isolates how the model's most confident picks performed.
func (r BacktestReport) HighScoreAccuracy() float64 {
	if r.HighScoreHits == 0 {
		return 0
	}
	return float64(r.HighScoreWins) / float64(r.HighScoreHits) * 100
}

// NewBacktest wires the grader. maturity is how old an alert must be before
// it is graded.
func NewBacktest(history ports.AlertHistory, quote QuoteFunc, maturity time.Duration, logger *slog.Logger) *Backtest {
	if maturity <= 0 {
		maturity = 7 * 24 * time.Hour
	}
	return &Backtest{
		history:  history,
		quote:    quote,
		maturity: maturity,
		logger:   logger,
		now:      time.Now,
	}
}

// Run grades matured alerts and returns the aggregate. Alerts without a
// recorded price or with a failed quote lookup are skipped, not counted.
func (b *Backtest) Run(ctx context.Context) (BacktestReport, error) {
	var report BacktestReport
	if b.history == nil || b.quote == nil {
		return report, nil
	}

	cutoff := b.now().Add(-b.maturity)
	records, err := b.history.OlderThan(ctx, cutoff, backtestBatchLimit)
	if err != nil {
		return report, fmt.Errorf("load matured alerts: %w", err)
	}

	for _, record := range records {
		if record.PriceAtAlert <= 0 {
			continue
		}

		current, err := b.quote(ctx, record.Market, record.Symbol)
		if err != nil || current <= 0 {
			b.debug("quote unavailable for grading", "symbol", record.Symbol, "error", err)
			continue
		}

		gain := (current - record.PriceAtAlert) / record.PriceAtAlert * 100

		report.Total++
		report.AvgGain += gain
		if gain >= backtestWinThreshold {
			report.Wins++
		}
		if record.Score >= backtestHighScore {
			report.HighScoreHits++
			if gain >= backtestWinThreshold {
				report.HighScoreWins++
			}
		}
	}

	if report.Total > 0 {
		report.AvgGain /= float64(report.Total)
	}
	return report, nil
}

// FormatReport renders the aggregate for the notification channel.
func FormatReport(report BacktestReport) string {
	var b strings.Builder

	b.WriteString("📊 *Alert performance review*\n\n")
	if report.Total == 0 {
		b.WriteString("No matured alerts to grade yet.")
		return b.String()
	}

	fmt.Fprintf(&b, "Graded alerts: %d\n", report.Total)
	fmt.Fprintf(&b, "Wins (+%.0f%%+): %d (%.1f%%)\n", backtestWinThreshold, report.Wins, report.WinRate())
	fmt.Fprintf(&b, "Average gain: %+.1f%%\n", report.AvgGain)
	if report.HighScoreHits > 0 {
		fmt.Fprintf(&b, "High-conviction picks (score ≥ %.0f): %d, accuracy %.1f%%\n",
			backtestHighScore, report.HighScoreHits, report.HighScoreAccuracy())
	}
	return b.String()
}

func (b *Backtest) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
