package usecase

import (
	"math"
	"testing"

	"StockRadar/internal/domain"
)

func TestDecideGlobalBarRejectsMediocre(t *testing.T) {
	t.Parallel()

	engine := NewDecisionEngine(7, 4)
	candidate := domain.Candidate{
		Symbol:        "XYZ",
		Market:        domain.MarketUS,
		Price:         10,
		ChangePercent: 12,
		Trigger:       domain.TriggerPriceSurge,
	}

	decision := engine.Decide(candidate, domain.Assessment{Score: 6})

	if decision.Proceed {
		t.Fatalf("score 6 must not pass the global bar of 7")
	}
	if decision.EffectiveScore != 6 {
		t.Fatalf("no priority hint, effective score must stay 6, got %v", decision.EffectiveScore)
	}
}

func TestDecidePriorityBoostOverLowBar(t *testing.T) {
	t.Parallel()

	engine := NewDecisionEngine(7, 4)
	candidate := domain.Candidate{
		Symbol:   "ABC",
		Market:   domain.MarketUS,
		Trigger:  domain.TriggerInsiderFiling,
		Priority: 8,
	}

	decision := engine.Decide(candidate, domain.Assessment{Score: 5})

	if !decision.Proceed {
		t.Fatalf("boosted insider filing must pass the low bar")
	}
	if math.Abs(decision.EffectiveScore-7.4) > 1e-9 {
		t.Fatalf("expected effective score 7.4 (5 + 8*0.3), got %v", decision.EffectiveScore)
	}
	if decision.MinScore != 4 {
		t.Fatalf("insider filings use the low bar, got %v", decision.MinScore)
	}
}

func TestDecideBoostCapsAtTen(t *testing.T) {
	t.Parallel()

	engine := NewDecisionEngine(7, 4)
	candidate := domain.Candidate{Trigger: domain.TriggerOwnershipFiling, Priority: 13}

	decision := engine.Decide(candidate, domain.Assessment{Score: 9})

	if decision.EffectiveScore != 10 {
		t.Fatalf("effective score must cap at 10, got %v", decision.EffectiveScore)
	}
}

func TestDecideHighTrustTriggers(t *testing.T) {
	t.Parallel()

	engine := NewDecisionEngine(7, 4)

	lowBar := []domain.Trigger{
		domain.TriggerInsiderFiling,
		domain.TriggerOwnershipFiling,
		domain.TriggerShortSqueeze,
		domain.TriggerNews,
		domain.TriggerNewsSentiment,
	}
	for _, trigger := range lowBar {
		d := engine.Decide(domain.Candidate{Trigger: trigger}, domain.Assessment{Score: 4})
		if !d.Proceed {
			t.Fatalf("trigger %s with score 4 must pass the low bar", trigger)
		}
	}

	d := engine.Decide(domain.Candidate{Trigger: domain.TriggerSocialTrend}, domain.Assessment{Score: 4})
	if d.Proceed {
		t.Fatalf("social trend with score 4 must not pass the global bar")
	}
}

func TestFastPath(t *testing.T) {
	t.Parallel()

	engine := NewDecisionEngine(7, 4)

	headline := domain.Candidate{Trigger: domain.TriggerNewsSentiment, Title: "notable stock news"}
	if !engine.FastPath(headline) {
		t.Fatalf("priced-less sentiment headline should take the fast path")
	}

	priced := domain.Candidate{Trigger: domain.TriggerNewsSentiment, Price: 12}
	if engine.FastPath(priced) {
		t.Fatalf("candidate with a price must be fully scored")
	}

	surge := domain.Candidate{Trigger: domain.TriggerPriceSurge}
	if engine.FastPath(surge) {
		t.Fatalf("price surges never take the fast path")
	}
}
