package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"StockRadar/internal/domain"
	"StockRadar/internal/markethours"
	"StockRadar/internal/ports"
	"StockRadar/internal/scanner"
)

// OrchestratorDeps wires the scan loop.
type OrchestratorDeps struct {
	Registry      *scanner.Registry
	Pipeline      *Pipeline
	Notifier      ports.Notifier
	Interval      time.Duration
	SourceTimeout time.Duration
	MaxErrors     int
	ErrorPause    time.Duration
	Logger        *slog.Logger
}

// Orchestrator fans out to every registered source once per cycle, merges the
// results, and feeds them sequentially through the candidate pipeline. No
// source can block or fail its siblings: each invocation runs under its own
// timeout and a panic or error degrades to zero candidates.
type Orchestrator struct {
	registry      *scanner.Registry
	pipeline      *Pipeline
	notifier      ports.Notifier
	interval      time.Duration
	sourceTimeout time.Duration
	maxErrors     int
	errorPause    time.Duration
	logger        *slog.Logger
	now           func() time.Time
	marketOpen    func(domain.Market, time.Time) bool
}

// NewOrchestrator constructs the cycle driver.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	interval := deps.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := deps.SourceTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		registry:      deps.Registry,
		pipeline:      deps.Pipeline,
		notifier:      deps.Notifier,
		interval:      interval,
		sourceTimeout: timeout,
		maxErrors:     deps.MaxErrors,
		errorPause:    deps.ErrorPause,
		logger:        logger,
		now:           time.Now,
		marketOpen:    markethours.Open,
	}
}

// Run executes scan cycles until the context is cancelled or the
// consecutive-error budget is exhausted. Both exits send a final user-visible
// notification first.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.send(ctx, startupMessage(o.now()))

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	errorCount := 0
	for {
		if err := o.Cycle(ctx); err != nil {
			errorCount++
			o.logger.Error("cycle failed", "count", errorCount, "max", o.maxErrors, "error", err)

			if o.maxErrors > 0 && errorCount >= o.maxErrors {
				o.send(ctx, "🚨 *System halted*\n\nToo many consecutive cycle failures.")
				return fmt.Errorf("aborting after %d consecutive cycle failures: %w", errorCount, err)
			}

			if !o.sleep(ctx, o.errorPause) {
				break
			}
			continue
		}
		errorCount = 0

		select {
		case <-ctx.Done():
			o.send(context.WithoutCancel(ctx), shutdownMessage(o.now()))
			return nil
		case <-ticker.C:
		}
	}

	o.send(context.WithoutCancel(ctx), shutdownMessage(o.now()))
	return nil
}

// Cycle performs one fan-out/fan-in pass and pushes every merged candidate
// through the pipeline sequentially.
func (o *Orchestrator) Cycle(ctx context.Context) error {
	if o.registry == nil {
		return fmt.Errorf("source registry is not configured")
	}

	candidates := o.scanAll(ctx)
	if len(candidates) == 0 {
		return nil
	}

	o.logger.Info("cycle merged candidates", "count", len(candidates))

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return nil
		}
		o.pipeline.Process(ctx, candidate)
	}
	return nil
}

// scanAll runs every open-market source concurrently and merges results in
// registration order.
func (o *Orchestrator) scanAll(ctx context.Context) []domain.Candidate {
	sources := o.registry.All()
	results := make([][]domain.Candidate, len(sources))
	done := make(chan int, len(sources))

	started := 0
	now := o.now()
	for i, source := range sources {
		if !o.marketOpen(source.Market(), now) {
			o.logger.Debug("market closed, skipping source", "source", source.Name())
			continue
		}

		started++
		go func(idx int, src scanner.Source) {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("source panicked", "source", src.Name(), "panic", r)
					results[idx] = nil
				}
				done <- idx
			}()

			scanCtx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
			defer cancel()

			found, err := src.Scan(scanCtx)
			if err != nil {
				o.logger.Warn("source scan failed", "source", src.Name(), "error", err)
				return
			}
			results[idx] = found
		}(i, source)
	}

	for n := 0; n < started; n++ {
		<-done
	}

	var merged []domain.Candidate
	for i, source := range sources {
		for _, candidate := range results[i] {
			if candidate.Market == "" {
				candidate.Market = source.Market()
			}
			merged = append(merged, candidate)
		}
		if len(results[i]) > 0 {
			o.logger.Info("source produced candidates", "source", source.Name(), "count", len(results[i]))
		}
	}
	return merged
}

func (o *Orchestrator) send(ctx context.Context, text string) {
	if o.notifier == nil {
		return
	}
	if !o.notifier.Send(ctx, text) {
		o.logger.Warn("status notification failed")
	}
}

// sleep waits for d or until cancellation; reports false when cancelled.
func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func startupMessage(now time.Time) string {
	return "✅ *Stock radar online*\n\n" +
		"✓ Insider filings (Form 4)\n" +
		"✓ Short squeeze screen (Finviz)\n" +
		"✓ Ownership filings (13D/G)\n" +
		"✓ News, price and social feeds\n\n" +
		"⏰ " + now.Format("2006-01-02 15:04:05")
}

func shutdownMessage(now time.Time) string {
	return "⛔ *Stock radar stopped*\n\n⏰ " + now.Format("2006-01-02 15:04:05")
}
