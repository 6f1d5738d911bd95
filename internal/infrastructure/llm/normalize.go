package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"StockRadar/internal/domain"
)

const (
	defaultScore        = 5
	defaultPositionSize = 10
	targetMultiplier    = 1.2
	stopMultiplier      = 0.9
)

// rawAssessment mirrors the fixed JSON object the prompt requires. Pointer
// fields distinguish "absent" from a literal zero.
type rawAssessment struct {
	Score          *float64 `json:"score"`
	Summary        string   `json:"summary"`
	Reasoning      string   `json:"reasoning"`
	RiskLevel      string   `json:"risk_level"`
	Recommendation string   `json:"recommendation"`
	EntryPrice     float64  `json:"entry_price"`
	TargetPrice    float64  `json:"target_price"`
	StopLoss       float64  `json:"stop_loss"`
	Upside         float64  `json:"upside"`
	Risk           float64  `json:"risk"`
	PositionSize   *float64 `json:"position_size"`
}

// parseAssessment decodes the generated text as the fixed schema, tolerating
// markdown code fences around the JSON body.
func parseAssessment(text string) (rawAssessment, error) {
	var raw rawAssessment
	cleaned := stripCodeFence(text)
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return rawAssessment{}, fmt.Errorf("parse assessment json: %w", err)
	}
	return raw, nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// normalize fills defaults, clamps ranges, and repairs price levels that are
// implausible against the candidate's known current price. Target must end up
// above the current price and stop below it; upside/risk are recomputed from
// the corrected levels whenever a price is known.
func normalize(raw rawAssessment, candidate domain.Candidate) domain.Assessment {
	out := domain.Assessment{
		Summary:        raw.Summary,
		Reasoning:      raw.Reasoning,
		RiskLevel:      riskLevel(raw.RiskLevel),
		Recommendation: recommendation(raw.Recommendation),
		EntryPrice:     raw.EntryPrice,
		TargetPrice:    raw.TargetPrice,
		StopLoss:       raw.StopLoss,
		Upside:         raw.Upside,
		Risk:           raw.Risk,
	}

	if raw.Score != nil {
		out.Score = clamp(*raw.Score, 1, 10)
	} else {
		out.Score = defaultScore
	}

	if raw.PositionSize != nil {
		out.PositionSize = clamp(*raw.PositionSize, 0, 100)
	} else {
		out.PositionSize = defaultPositionSize
	}

	if out.Summary == "" {
		out.Summary = "analysis complete"
	}
	if out.Reasoning == "" {
		out.Reasoning = "insufficient data"
	}

	if candidate.HasPrice() {
		price := candidate.Price
		if out.EntryPrice <= 0 {
			out.EntryPrice = price
		}
		if out.TargetPrice <= price {
			out.TargetPrice = price * targetMultiplier
		}
		if out.StopLoss >= price || out.StopLoss <= 0 {
			out.StopLoss = price * stopMultiplier
		}
		out.Upside = (out.TargetPrice - price) / price * 100
		out.Risk = (price - out.StopLoss) / price * 100
	} else {
		if out.EntryPrice < 0 {
			out.EntryPrice = 0
		}
		if out.TargetPrice < 0 {
			out.TargetPrice = 0
		}
		if out.StopLoss < 0 {
			out.StopLoss = 0
		}
	}

	return out
}

func riskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "extreme":
		return domain.RiskExtreme
	case "":
		return domain.RiskHigh
	default:
		return domain.RiskUnknown
	}
}

func recommendation(value string) domain.Recommendation {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "buy":
		return domain.RecommendBuy
	case "sell":
		return domain.RecommendSell
	default:
		return domain.RecommendWait
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
