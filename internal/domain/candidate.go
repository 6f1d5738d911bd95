package domain

// Market tags a candidate with the exchange region it was detected on.
type Market string

const (
	MarketUS Market = "US"
	MarketKR Market = "KR"
)

// Trigger classifies what kind of signal produced a candidate.
type Trigger string

const (
	TriggerPriceSurge      Trigger = "price_surge"
	TriggerNews            Trigger = "news"
	TriggerNewsSentiment   Trigger = "news_sentiment"
	TriggerSocialTrend     Trigger = "social_trend"
	TriggerInsiderFiling   Trigger = "insider_trading"
	TriggerOwnershipFiling Trigger = "whale_alert"
	TriggerShortSqueeze    Trigger = "short_squeeze"
)

// Candidate is one detected signal from a source adapter, not yet scored.
// Numeric facts are zero when the source has no price context (filings,
// social mentions). Immutable once produced.
type Candidate struct {
	Symbol        string
	Name          string
	Market        Market
	Price         float64
	ChangePercent float64
	Volume        float64
	TradeValue    float64
	Trigger       Trigger
	TriggerReason string
	Title         string
	NewsURL       string
	Priority      int
}

// HasPrice reports whether the candidate carries a usable current price.
func (c Candidate) HasPrice() bool {
	return c.Price > 0
}

// NewsDerived reports whether the trigger came from a news item, meaning the
// linked article body is worth fetching for analysis context.
func (c Candidate) NewsDerived() bool {
	return c.Trigger == TriggerNews || c.Trigger == TriggerNewsSentiment
}

// DisplayName prefers the human-readable company name when a source provided
// one (Korean listings expose names, not tickers).
func (c Candidate) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Symbol
}
