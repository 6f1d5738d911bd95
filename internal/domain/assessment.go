package domain

// RiskLevel is the AI's qualitative risk classification.
type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskExtreme RiskLevel = "Extreme"
	RiskUnknown RiskLevel = "Unknown"
)

// Recommendation is the AI's suggested action.
type Recommendation string

const (
	RecommendBuy  Recommendation = "Buy"
	RecommendWait Recommendation = "Wait"
	RecommendSell Recommendation = "Sell"
)

// Assessment is the normalized output of the analysis gateway for one
// candidate. Never mutated after creation. When every model attempt fails the
// gateway returns Fallback() instead of an error, so downstream components
// always see a schema-complete value.
type Assessment struct {
	Score          float64
	Summary        string
	Reasoning      string
	RiskLevel      RiskLevel
	Recommendation Recommendation
	EntryPrice     float64
	TargetPrice    float64
	StopLoss       float64
	Upside         float64
	Risk           float64
	PositionSize   float64
}

// Fallback is the low-confidence assessment used when no model responds.
func Fallback() Assessment {
	return Assessment{
		Score:          0,
		Summary:        "AI analysis unavailable",
		Reasoning:      "all model attempts failed",
		RiskLevel:      RiskUnknown,
		Recommendation: RecommendWait,
	}
}

// Neutral is the assessment attached to fast-path candidates that bypass AI
// scoring entirely (plain headline alerts with no numeric signal).
func Neutral(summary string) Assessment {
	return Assessment{
		Score:          5,
		Summary:        summary,
		Reasoning:      "dispatched without model scoring",
		RiskLevel:      RiskHigh,
		Recommendation: RecommendWait,
		PositionSize:   10,
	}
}
