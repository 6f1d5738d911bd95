package domain

import "time"

// AlertRecord is one line of the append-only audit log, written per dispatched
// notification. It is never read by the live pipeline, only by retrospective
// performance review.
type AlertRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	Symbol        string    `json:"symbol"`
	Market        Market    `json:"market"`
	PriceAtAlert  float64   `json:"price_at_alert"`
	Score         float64   `json:"ai_score"`
	Trigger       Trigger   `json:"trigger_type"`
	TriggerReason string    `json:"trigger_reason"`
	TargetPrice   float64   `json:"target_price"`
	Upside        float64   `json:"upside"`
}
