package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"StockRadar/internal/domain"
	"StockRadar/internal/ports"
)

// JSONLAuditLog appends one JSON line per dispatched alert to a local file.
// It is the always-on audit trail; Postgres history is optional on top.
type JSONLAuditLog struct {
	mu   sync.Mutex
	path string
}

var _ ports.AuditLog = (*JSONLAuditLog)(nil)

// NewJSONLAuditLog creates the parent directory if needed.
func NewJSONLAuditLog(path string) (*JSONLAuditLog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}
	return &JSONLAuditLog{path: path}, nil
}

// Append writes the record as one line. The file is opened per call so an
// external rotation never leaves a stale handle.
func (l *JSONLAuditLog) Append(record domain.AlertRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
