package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockRadar/internal/domain"
)

func TestJSONLAuditLogAppend(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "alerts.jsonl")
	log, err := NewJSONLAuditLog(path)
	if err != nil {
		t.Fatalf("NewJSONLAuditLog returned error: %v", err)
	}

	first := domain.AlertRecord{
		Timestamp:    time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		Symbol:       "ACME",
		Market:       domain.MarketUS,
		PriceAtAlert: 12.5,
		Score:        8.0,
		Trigger:      domain.TriggerPriceSurge,
		TargetPrice:  15.0,
		Upside:       20.0,
	}
	second := domain.AlertRecord{
		Timestamp: time.Date(2026, 1, 5, 10, 1, 0, 0, time.UTC),
		Symbol:    "005930",
		Market:    domain.MarketKR,
		Trigger:   domain.TriggerNewsSentiment,
	}

	if err := log.Append(first); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := log.Append(second); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines []domain.AlertRecord
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		var r domain.AlertRecord
		if err := json.Unmarshal(scan.Bytes(), &r); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		lines = append(lines, r)
	}
	if err := scan.Err(); err != nil {
		t.Fatalf("scan log: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Symbol != "ACME" || lines[0].Score != 8.0 {
		t.Fatalf("unexpected first record: %+v", lines[0])
	}
	if lines[1].Symbol != "005930" || lines[1].Market != domain.MarketKR {
		t.Fatalf("unexpected second record: %+v", lines[1])
	}
}
