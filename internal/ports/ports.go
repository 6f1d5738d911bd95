package ports

import (
	"context"
	"time"

	"StockRadar/internal/domain"
)

// Analyzer turns one candidate into a structured opportunity assessment.
// Implementations must not fail: when every backend attempt is exhausted they
// degrade to a deterministic fallback assessment.
type Analyzer interface {
	Assess(ctx context.Context, candidate domain.Candidate) domain.Assessment
}

// Notifier delivers rendered alert text to the outbound messaging channel.
// Delivery is best-effort; the returned bool reports whether the sink
// confirmed the message.
type Notifier interface {
	Send(ctx context.Context, text string) bool
}

// AuditLog appends one record per dispatched notification for later
// performance review. Never read during live operation.
type AuditLog interface {
	Append(record domain.AlertRecord) error
}

// AlertHistory persists dispatched alerts for retrospective backtesting.
type AlertHistory interface {
	Save(ctx context.Context, record domain.AlertRecord) error
	OlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.AlertRecord, error)
}
