package llm

import (
	"math"
	"testing"

	"StockRadar/internal/domain"
)

func TestParseAssessmentWithCodeFence(t *testing.T) {
	t.Parallel()

	text := "```json\n{\"score\": 8, \"summary\": \"strong catalyst\"}\n```"
	raw, err := parseAssessment(text)
	if err != nil {
		t.Fatalf("parseAssessment error: %v", err)
	}
	if raw.Score == nil || *raw.Score != 8 {
		t.Fatalf("unexpected score: %v", raw.Score)
	}
	if raw.Summary != "strong catalyst" {
		t.Fatalf("unexpected summary: %q", raw.Summary)
	}
}

func TestParseAssessmentRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := parseAssessment("sorry, I cannot help with that"); err == nil {
		t.Fatalf("expected parse error for non-JSON text")
	}
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	t.Parallel()

	got := normalize(rawAssessment{}, domain.Candidate{Symbol: "ABC"})

	if got.Score != 5 {
		t.Fatalf("missing score should default to 5, got %v", got.Score)
	}
	if got.RiskLevel != domain.RiskHigh {
		t.Fatalf("missing risk_level should default to High, got %s", got.RiskLevel)
	}
	if got.Recommendation != domain.RecommendWait {
		t.Fatalf("missing recommendation should default to Wait, got %s", got.Recommendation)
	}
	if got.Summary == "" || got.Reasoning == "" {
		t.Fatalf("summary/reasoning must be populated: %+v", got)
	}
	if got.PositionSize != 10 {
		t.Fatalf("missing position_size should default to 10, got %v", got.PositionSize)
	}
}

func TestNormalizeClampsRanges(t *testing.T) {
	t.Parallel()

	score := 14.0
	position := 250.0
	got := normalize(rawAssessment{Score: &score, PositionSize: &position}, domain.Candidate{})

	if got.Score != 10 {
		t.Fatalf("score should clamp to 10, got %v", got.Score)
	}
	if got.PositionSize != 100 {
		t.Fatalf("position size should clamp to 100, got %v", got.PositionSize)
	}
}

func TestNormalizeRepairsImplausiblePrices(t *testing.T) {
	t.Parallel()

	score := 7.0
	raw := rawAssessment{
		Score:       &score,
		EntryPrice:  -3,
		TargetPrice: 5,  // below current price
		StopLoss:    15, // above current price
	}
	candidate := domain.Candidate{Symbol: "XYZ", Price: 10}

	got := normalize(raw, candidate)

	if got.EntryPrice != 10 {
		t.Fatalf("entry should snap to current price, got %v", got.EntryPrice)
	}
	if got.TargetPrice != 12 {
		t.Fatalf("target should become price*1.2 = 12, got %v", got.TargetPrice)
	}
	if got.StopLoss != 9 {
		t.Fatalf("stop should become price*0.9 = 9, got %v", got.StopLoss)
	}
	if math.Abs(got.Upside-20) > 1e-9 {
		t.Fatalf("upside should recompute to 20%%, got %v", got.Upside)
	}
	if math.Abs(got.Risk-10) > 1e-9 {
		t.Fatalf("risk should recompute to 10%%, got %v", got.Risk)
	}
}

func TestNormalizeKeepsPlausiblePrices(t *testing.T) {
	t.Parallel()

	score := 6.0
	raw := rawAssessment{
		Score:       &score,
		EntryPrice:  10.5,
		TargetPrice: 15,
		StopLoss:    8,
		Upside:      999, // stale model value, must be recomputed
	}
	got := normalize(raw, domain.Candidate{Price: 10})

	if got.TargetPrice != 15 || got.StopLoss != 8 {
		t.Fatalf("plausible levels must be preserved: %+v", got)
	}
	if math.Abs(got.Upside-50) > 1e-9 {
		t.Fatalf("upside should recompute to 50%%, got %v", got.Upside)
	}
}

func TestStripCodeFenceVariants(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"{\"a\":1}":                      "{\"a\":1}",
		"```json\n{\"a\":1}\n```":        "{\"a\":1}",
		"```\n{\"a\":1}\n```":            "{\"a\":1}",
		"  ```json\n{\"a\":1}\n```\n  ": "{\"a\":1}",
	}

	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
