package usecase

import (
	"strings"
	"testing"
	"time"

	"StockRadar/internal/domain"
)

func TestFormatAlertUSWithStrategy(t *testing.T) {
	t.Parallel()

	candidate := domain.Candidate{
		Symbol:        "XYZ",
		Market:        domain.MarketUS,
		Price:         10,
		ChangePercent: 12.3,
		Volume:        2_500_000,
		Trigger:       domain.TriggerPriceSurge,
		TriggerReason: "surge with heavy volume",
		NewsURL:       "https://example.org/xyz",
	}
	assessment := domain.Assessment{
		Score:        9,
		Summary:      "real catalyst",
		Reasoning:    "contract news confirmed",
		RiskLevel:    domain.RiskMedium,
		EntryPrice:   10,
		TargetPrice:  12,
		StopLoss:     9,
		Upside:       20,
		Risk:         10,
		PositionSize: 15,
	}

	at := time.Date(2026, time.March, 2, 10, 30, 0, 0, time.UTC)
	msg := FormatAlert(candidate, assessment, at)

	for _, want := range []string{
		"TENBAGGER",
		"*$XYZ*",
		"Price: $10.00",
		"+12.30%",
		"Volume: 2,500,000",
		"surge with heavy volume",
		"real catalyst",
		"Target: $12.00 *(+20%)*",
		"Stop: $9.00 (-10%)",
		"Risk:* Medium",
		"Position size:* 15%",
		"https://example.org/xyz",
		"2026-03-02 10:30:00",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatAlertKRUsesNameAndWon(t *testing.T) {
	t.Parallel()

	candidate := domain.Candidate{
		Symbol:        "005930",
		Name:          "삼성전자",
		Market:        domain.MarketKR,
		Price:         71_500,
		Trigger:       domain.TriggerPriceSurge,
		TriggerReason: "volume leader",
	}
	assessment := domain.Assessment{
		Score:       7,
		Summary:     "steady",
		Reasoning:   "ok",
		RiskLevel:   domain.RiskLow,
		EntryPrice:  71_500,
		TargetPrice: 85_800,
		StopLoss:    64_350,
		Upside:      20,
		Risk:        10,
	}

	msg := FormatAlert(candidate, assessment, time.Now())

	if !strings.Contains(msg, "*삼성전자*") {
		t.Fatalf("KR alert should show the company name:\n%s", msg)
	}
	if !strings.Contains(msg, "Price: 71,500 KRW") {
		t.Fatalf("KR alert should render won price with grouping:\n%s", msg)
	}
	if !strings.Contains(msg, "🇰🇷") {
		t.Fatalf("KR alert should carry the market flag:\n%s", msg)
	}
}

func TestFormatAlertOmitsStrategyWithoutPrice(t *testing.T) {
	t.Parallel()

	candidate := domain.Candidate{
		Symbol:        "ABC",
		Market:        domain.MarketUS,
		Trigger:       domain.TriggerInsiderFiling,
		TriggerReason: "Form 4 filed",
	}
	msg := FormatAlert(candidate, domain.Assessment{Score: 5, Summary: "s", Reasoning: "r", RiskLevel: domain.RiskHigh}, time.Now())

	if strings.Contains(msg, "Strategy") {
		t.Fatalf("strategy block requires a known price:\n%s", msg)
	}
	if !strings.Contains(msg, "OPPORTUNITY") {
		t.Fatalf("score 5 should use the standard banner:\n%s", msg)
	}
}

func TestUrgencyBannerTiers(t *testing.T) {
	t.Parallel()

	if got := urgencyBanner(9); !strings.Contains(got, "TENBAGGER") {
		t.Fatalf("score 9 banner: %q", got)
	}
	if got := urgencyBanner(8.2); !strings.Contains(got, "HIGH PRIORITY") {
		t.Fatalf("score 8.2 banner: %q", got)
	}
	if got := urgencyBanner(7.9); !strings.Contains(got, "OPPORTUNITY") {
		t.Fatalf("score 7.9 banner: %q", got)
	}
}

func TestGroupDigits(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		2500000:    "2,500,000",
		-12345:     "-12,345",
		1234567890: "1,234,567,890",
	}
	for in, want := range cases {
		if got := groupDigits(in); got != want {
			t.Fatalf("groupDigits(%d) = %q, want %q", in, got, want)
		}
	}
}
