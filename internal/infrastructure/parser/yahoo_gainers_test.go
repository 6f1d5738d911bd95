package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockRadar/internal/dedup"
)

func TestParseVolume(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"3.5M", 3_500_000},
		{"120K", 120_000},
		{"1.2B", 1_200_000_000},
		{"1,234", 1234},
		{"garbage", 0},
	}

	for _, tc := range cases {
		if got := parseVolume(tc.in); got != tc.want {
			t.Fatalf("parseVolume(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSessionTarget(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	src := NewYahooGainersSource(nil, nil, nil)

	src.now = func() time.Time { return time.Date(2026, 1, 5, 5, 30, 0, 0, ny) }
	if target, pre := src.sessionTarget(); !pre || target != src.preMarketURL {
		t.Fatalf("05:30 NY should select pre-market table, got %s pre=%v", target, pre)
	}

	src.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, ny) }
	if target, pre := src.sessionTarget(); pre || target != src.regularURL {
		t.Fatalf("10:00 NY should select regular table, got %s pre=%v", target, pre)
	}
}

const gainersTableHTML = `
<html><body><table><tbody>
<tr>
  <td><span class="symbol">SOAR</span></td>
  <td>12.50</td><td>+2.50</td><td>+25.0%</td><td>n/a</td><td>3M</td>
</tr>
<tr>
  <td><span class="symbol">FLAT</span></td>
  <td>20.00</td><td>+0.40</td><td>+2.0%</td><td>n/a</td><td>5M</td>
</tr>
<tr>
  <td><span class="symbol">PENY</span></td>
  <td>0.40</td><td>+0.10</td><td>+30.0%</td><td>n/a</td><td>50M</td>
</tr>
<tr>
  <td><span class="symbol">THIN</span></td>
  <td>8.00</td><td>+1.00</td><td>+14.0%</td><td>n/a</td><td>100K</td>
</tr>
</tbody></table></body></html>`

func TestYahooGainersScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, gainersTableHTML)
	}))
	defer server.Close()

	src := NewYahooGainersSource(server.Client(), dedup.NewStore(0), nil)
	src.regularURL = server.URL
	src.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, src.location) }

	candidates, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	// Only SOAR survives: FLAT moves too little, PENY is sub-dollar dust,
	// THIN's traded value misses the regular-session floor.
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(candidates), candidates)
	}

	c := candidates[0]
	if c.Symbol != "SOAR" {
		t.Fatalf("expected SOAR, got %s", c.Symbol)
	}
	if c.Price != 12.5 || c.ChangePercent != 25.0 {
		t.Fatalf("unexpected facts: price=%v change=%v", c.Price, c.ChangePercent)
	}
	if c.TradeValue != 12.5*3_000_000 {
		t.Fatalf("unexpected trade value: %v", c.TradeValue)
	}

	// Same move bucket again: suppressed by the content store.
	again, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("second Scan returned error: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected repeat scan to dedupe, got %d candidates", len(again))
	}
}
