package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
	"StockRadar/internal/ports"
)

// PipelineDeps wires all driven adapters into the per-candidate pipeline.
type PipelineDeps struct {
	Store         *dedup.Store
	Analyzer      ports.Analyzer
	Notifier      ports.Notifier
	AuditLog      ports.AuditLog
	History       ports.AlertHistory
	Engine        *DecisionEngine
	AlertCooldown time.Duration
	DispatchPause time.Duration
	Logger        *slog.Logger
}

// Pipeline runs one candidate through the dedup gate, AI assessment, the
// decision engine, and dispatch. Every external call site degrades instead of
// propagating: a candidate is considered handled once dispatch was attempted.
type Pipeline struct {
	store         *dedup.Store
	analyzer      ports.Analyzer
	notifier      ports.Notifier
	auditLog      ports.AuditLog
	history       ports.AlertHistory
	engine        *DecisionEngine
	alertCooldown time.Duration
	limiter       *rate.Limiter
	logger        *slog.Logger
	now           func() time.Time
}

// NewPipeline constructs the candidate-processing component. The limiter
// enforces the inter-candidate pause in front of AI calls so bursts of
// candidates in one cycle respect external rate limits.
func NewPipeline(deps PipelineDeps) *Pipeline {
	pause := deps.DispatchPause
	if pause <= 0 {
		pause = time.Second
	}
	return &Pipeline{
		store:         deps.Store,
		analyzer:      deps.Analyzer,
		notifier:      deps.Notifier,
		auditLog:      deps.AuditLog,
		history:       deps.History,
		engine:        deps.Engine,
		alertCooldown: deps.AlertCooldown,
		limiter:       rate.NewLimiter(rate.Every(pause), 1),
		logger:        deps.Logger,
		now:           time.Now,
	}
}

// Process handles a single merged candidate. It never returns an error: all
// failure modes degrade to a logged skip or a fallback assessment.
func (p *Pipeline) Process(ctx context.Context, candidate domain.Candidate) {
	if p.store != nil && !p.store.ShouldAlert(string(candidate.Market), candidate.Symbol, p.alertCooldown) {
		p.debug("cooldown active", "symbol", candidate.Symbol, "market", candidate.Market)
		return
	}

	assessment, fastPath := p.assess(ctx, candidate)

	decision := p.engine.Decide(candidate, assessment)
	if !fastPath && !decision.Proceed {
		p.info("score below bar",
			"symbol", candidate.Symbol,
			"effective", decision.EffectiveScore,
			"min", decision.MinScore)
		return
	}

	p.record(ctx, candidate, assessment)

	message := FormatAlert(candidate, assessment, p.now())
	if p.notifier != nil && !p.notifier.Send(ctx, message) {
		p.warn("dispatch failed", "symbol", candidate.Symbol)
		return
	}

	p.info("alert dispatched",
		"symbol", candidate.Symbol,
		"market", candidate.Market,
		"score", decision.EffectiveScore)
}

func (p *Pipeline) assess(ctx context.Context, candidate domain.Candidate) (domain.Assessment, bool) {
	if p.engine.FastPath(candidate) {
		summary := candidate.Title
		if summary == "" {
			summary = candidate.TriggerReason
		}
		return domain.Neutral(summary), true
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return domain.Fallback(), false
	}

	if p.analyzer == nil {
		return domain.Fallback(), false
	}
	return p.analyzer.Assess(ctx, candidate), false
}

func (p *Pipeline) record(ctx context.Context, candidate domain.Candidate, assessment domain.Assessment) {
	record := domain.AlertRecord{
		Timestamp:     p.now(),
		Symbol:        candidate.Symbol,
		Market:        candidate.Market,
		PriceAtAlert:  candidate.Price,
		Score:         assessment.Score,
		Trigger:       candidate.Trigger,
		TriggerReason: candidate.TriggerReason,
		TargetPrice:   assessment.TargetPrice,
		Upside:        assessment.Upside,
	}

	if p.auditLog != nil {
		if err := p.auditLog.Append(record); err != nil {
			p.warn("audit append failed", "symbol", candidate.Symbol, "error", err)
		}
	}
	if p.history != nil {
		if err := p.history.Save(ctx, record); err != nil {
			p.warn("history save failed", "symbol", candidate.Symbol, "error", err)
		}
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
