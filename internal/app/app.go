package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"StockRadar/internal/config"
	"StockRadar/internal/dedup"
	"StockRadar/internal/infrastructure/llm"
	"StockRadar/internal/infrastructure/parser"
	"StockRadar/internal/infrastructure/scheduler"
	"StockRadar/internal/infrastructure/storage"
	"StockRadar/internal/infrastructure/telegram"
	"StockRadar/internal/logging"
	"StockRadar/internal/ports"
	"StockRadar/internal/scanner"
	"StockRadar/internal/usecase"
)

// Application wires config to sources, the analysis gateway, storage, and
// the orchestration loop.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	orchestrator *usecase.Orchestrator
	notifier     ports.Notifier
	backtest     *usecase.Backtest
	review       *scheduler.Periodic
	history      *storage.PostgresHistory
}

// New builds a runnable application instance. Optional backends (Postgres,
// the AI key, the Finnhub key) degrade to reduced functionality instead of
// failing startup.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	contentStore := dedup.NewStore(0)
	subjectStore := dedup.NewStore(0)
	keywords := parser.NewKeywordFilter(cfg.Keywords.Positive, cfg.Keywords.Negative)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewYahooGainersSource(nil, contentStore,
		baseLogger.With("component", "source.yahoo")))
	registry.Register(parser.NewFinvizShortSource(nil,
		baseLogger.With("component", "source.finviz")))
	registry.Register(parser.NewInsiderSource(contentStore,
		baseLogger.With("component", "source.edgar-insider")))
	registry.Register(parser.NewOwnershipSource(contentStore,
		baseLogger.With("component", "source.edgar-ownership")))
	registry.Register(parser.NewRedditSocialSource("wallstreetbets", cfg.Filters.RedditMinMention,
		nil, contentStore, baseLogger.With("component", "source.reddit")))
	registry.Register(parser.NewNaverNewsSource(keywords, contentStore, nil,
		baseLogger.With("component", "source.naver-news")))
	registry.Register(parser.NewNaverSurgeSource(cfg.Sources.KRCooldown.Std(), nil,
		baseLogger.With("component", "source.naver-surge")))

	if cfg.Sources.FinnhubAPIKey != "" {
		registry.Register(parser.NewFinnhubNewsSource(cfg.Sources.FinnhubAPIKey, keywords, contentStore,
			cfg.Filters.MinPrice, cfg.Filters.MaxPrice, cfg.Filters.MinPriceChange,
			nil, baseLogger.With("component", "source.finnhub")))
	} else {
		baseLogger.Warn("finnhub api key missing, news source disabled")
	}

	analyzer := buildAnalyzer(cfg.AI, baseLogger)
	notifier := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID,
		baseLogger.With("component", "telegram"))

	var auditLog ports.AuditLog
	if jsonl, err := storage.NewJSONLAuditLog(cfg.Sources.AuditLogPath); err != nil {
		baseLogger.Warn("audit log unavailable", "path", cfg.Sources.AuditLogPath, "error", err)
	} else {
		auditLog = jsonl
	}

	var history *storage.PostgresHistory
	if cfg.Database.DSN != "" {
		h, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("alert history unavailable", "error", err)
		} else {
			history = h
		}
	}

	engine := usecase.NewDecisionEngine(cfg.AI.MinScore, cfg.AI.LowBarScore)

	var historyPort ports.AlertHistory
	if history != nil {
		historyPort = history
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:         subjectStore,
		Analyzer:      analyzer,
		Notifier:      notifier,
		AuditLog:      auditLog,
		History:       historyPort,
		Engine:        engine,
		AlertCooldown: cfg.Scan.AlertCooldown.Std(),
		DispatchPause: cfg.Scan.DispatchPause.Std(),
		Logger:        baseLogger.With("component", "pipeline"),
	})

	orchestrator := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Registry:      registry,
		Pipeline:      pipeline,
		Notifier:      notifier,
		Interval:      cfg.Scan.Interval.Std(),
		SourceTimeout: cfg.Scan.SourceTimeout.Std(),
		MaxErrors:     cfg.Scan.MaxConsecutiveErr,
		ErrorPause:    cfg.Scan.ErrorPause.Std(),
		Logger:        baseLogger.With("component", "orchestrator"),
	})

	a := &Application{
		cfg:          cfg,
		logger:       baseLogger,
		orchestrator: orchestrator,
		notifier:     notifier,
		history:      history,
	}

	if history != nil && cfg.Sources.FinnhubAPIKey != "" {
		quotes := parser.NewFinnhubQuoteClient(cfg.Sources.FinnhubAPIKey, nil)
		a.backtest = usecase.NewBacktest(history, quotes.Current, 7*24*time.Hour,
			baseLogger.With("component", "backtest"))
		a.review = scheduler.NewPeriodic(24 * time.Hour)
	}

	return a
}

// Run drives scan cycles until ctx is cancelled, plus the daily performance
// review when history is configured.
func (a *Application) Run(ctx context.Context) error {
	if a.review != nil {
		a.review.Start(ctx, a.publishReview)
		defer a.review.Stop()
	}
	if a.history != nil {
		defer a.history.Close()
	}

	return a.orchestrator.Run(ctx)
}

func (a *Application) publishReview(ctx context.Context, _ time.Time) {
	report, err := a.backtest.Run(ctx)
	if err != nil {
		a.logger.Warn("performance review failed", "error", err)
		return
	}
	if report.Total == 0 {
		return
	}
	if !a.notifier.Send(ctx, usecase.FormatReport(report)) {
		a.logger.Warn("performance review dispatch failed")
	}
}

func buildAnalyzer(cfg config.AIConfig, baseLogger *slog.Logger) ports.Analyzer {
	if cfg.APIKey == "" {
		baseLogger.Warn("ai api key missing, assessments degrade to fallback")
	}

	client := &http.Client{Timeout: cfg.RequestTimeout.Std()}

	var providers []llm.Provider
	for _, model := range cfg.Models {
		providers = append(providers, llm.NewGeminiProvider(cfg.Endpoint, model, cfg.APIKey, client))
	}

	return llm.NewAnalyzer(providers, llm.NewArticleFetcher(nil),
		baseLogger.With("component", "analyzer"))
}
