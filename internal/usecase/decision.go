package usecase

import (
	"StockRadar/internal/domain"
)

const (
	maxScore       = 10
	priorityWeight = 0.3
)

// highTrustTriggers use the low score bar: their sources already carry strong
// intrinsic signal (regulatory filings, short-interest screens, curated news),
// so a mediocre model score should not drown them.
var highTrustTriggers = map[domain.Trigger]bool{
	domain.TriggerInsiderFiling:   true,
	domain.TriggerOwnershipFiling: true,
	domain.TriggerShortSqueeze:    true,
	domain.TriggerNews:            true,
	domain.TriggerNewsSentiment:   true,
}

// Decision is the outcome of the score/priority gate for one candidate.
type Decision struct {
	Proceed        bool
	EffectiveScore float64
	MinScore       float64
}

// DecisionEngine applies class-specific thresholds and priority boosts.
type DecisionEngine struct {
	minScore float64
	lowBar   float64
}

// NewDecisionEngine configures the global and high-trust score bars.
func NewDecisionEngine(minScore, lowBar float64) *DecisionEngine {
	return &DecisionEngine{minScore: minScore, lowBar: lowBar}
}

// Decide boosts the assessment score by the candidate's priority hint and
// compares it against the applicable minimum.
func (e *DecisionEngine) Decide(candidate domain.Candidate, assessment domain.Assessment) Decision {
	effective := assessment.Score
	if candidate.Priority > 0 {
		effective += float64(candidate.Priority) * priorityWeight
		if effective > maxScore {
			effective = maxScore
		}
	}

	bar := e.minScore
	if highTrustTriggers[candidate.Trigger] {
		bar = e.lowBar
	}

	return Decision{
		Proceed:        effective >= bar,
		EffectiveScore: effective,
		MinScore:       bar,
	}
}

// FastPath reports whether the candidate may bypass AI scoring entirely:
// plain headline sentiment with no numeric facts trades analysis depth for
// latency and model cost.
func (e *DecisionEngine) FastPath(candidate domain.Candidate) bool {
	return candidate.Trigger == domain.TriggerNewsSentiment && !candidate.HasPrice()
}
