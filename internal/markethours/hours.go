package markethours

import (
	"time"

	"StockRadar/internal/domain"
)

var (
	newYork *time.Location
	seoul   *time.Location
)

func init() {
	newYork, _ = time.LoadLocation("America/New_York")
	seoul, _ = time.LoadLocation("Asia/Seoul")
}

// Open reports whether the given market accepts trades at t. US hours include
// the extended pre/after-market sessions (04:00-20:00 New York) because the
// feeds covered here surface pre-market movers too; KR covers the regular
// 09:00-15:30 Seoul session. Weekends are closed for both. Unknown markets
// default to open so a misconfigured adapter degrades to scanning, not
// silence.
func Open(market domain.Market, t time.Time) bool {
	switch market {
	case domain.MarketUS:
		return openUS(t)
	case domain.MarketKR:
		return openKR(t)
	default:
		return true
	}
}

func openUS(t time.Time) bool {
	if newYork == nil {
		return true
	}
	local := t.In(newYork)
	if isWeekend(local) {
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= 4*60 && minutes <= 20*60
}

func openKR(t time.Time) bool {
	if seoul == nil {
		return true
	}
	local := t.In(seoul)
	if isWeekend(local) {
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= 9*60 && minutes <= 15*60+30
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
