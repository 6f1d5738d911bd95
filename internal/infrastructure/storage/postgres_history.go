package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"StockRadar/internal/domain"
	"StockRadar/internal/ports"
)

// PostgresHistory persists dispatched alerts for retrospective backtesting.
// A nil db degrades every call to a no-op so the pipeline runs without a
// database in development.
type PostgresHistory struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.AlertHistory = (*PostgresHistory)(nil)

// Open connects, pings, and prepares the alerts table.
func Open(ctx context.Context, dsn string) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	h := NewPostgresHistory(db)
	if err := h.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return h, nil
}

// NewPostgresHistory wires an existing sql.DB.
func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Close releases the underlying connection pool.
func (h *PostgresHistory) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

func (h *PostgresHistory) ensureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS alerts (
        id BIGSERIAL PRIMARY KEY,
        alerted_at TIMESTAMPTZ NOT NULL,
        symbol TEXT NOT NULL,
        market TEXT NOT NULL,
        price_at_alert DOUBLE PRECISION NOT NULL,
        ai_score DOUBLE PRECISION NOT NULL,
        trigger_type TEXT NOT NULL,
        trigger_reason TEXT NOT NULL DEFAULT '',
        target_price DOUBLE PRECISION NOT NULL DEFAULT 0,
        upside DOUBLE PRECISION NOT NULL DEFAULT 0
    )`

	if _, err := h.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure alerts table: %w", err)
	}
	return nil
}

// Save inserts one dispatched alert.
func (h *PostgresHistory) Save(ctx context.Context, record domain.AlertRecord) error {
	if h.db == nil {
		return nil
	}

	query, args, err := h.builder.
		Insert("alerts").
		Columns("alerted_at", "symbol", "market", "price_at_alert", "ai_score",
			"trigger_type", "trigger_reason", "target_price", "upside").
		Values(record.Timestamp, record.Symbol, string(record.Market), record.PriceAtAlert,
			record.Score, string(record.Trigger), record.TriggerReason, record.TargetPrice, record.Upside).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := h.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// OlderThan returns alerts dispatched before the cutoff, oldest first, for
// performance review once enough market time has passed.
func (h *PostgresHistory) OlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.AlertRecord, error) {
	if h.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	query, args, err := h.builder.
		Select("alerted_at", "symbol", "market", "price_at_alert", "ai_score",
			"trigger_type", "trigger_reason", "target_price", "upside").
		From("alerts").
		Where(sq.Lt{"alerted_at": cutoff}).
		OrderBy("alerted_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var records []domain.AlertRecord
	for rows.Next() {
		var r domain.AlertRecord
		var market, trigger string
		if err := rows.Scan(&r.Timestamp, &r.Symbol, &market, &r.PriceAtAlert,
			&r.Score, &trigger, &r.TriggerReason, &r.TargetPrice, &r.Upside); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		r.Market = domain.Market(market)
		r.Trigger = domain.Trigger(trigger)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return records, nil
}
