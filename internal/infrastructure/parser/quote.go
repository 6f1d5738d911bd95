package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"StockRadar/internal/domain"
)

// FinnhubQuoteClient resolves current prices for grading past alerts.
type FinnhubQuoteClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewFinnhubQuoteClient wires the quote endpoint; nil client gets a 10s
// timeout default.
func NewFinnhubQuoteClient(apiKey string, client *http.Client) *FinnhubQuoteClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FinnhubQuoteClient{baseURL: defaultFinnhubURL, apiKey: apiKey, client: client}
}

// Current returns the latest price. Only US symbols are supported; Korean
// codes are not resolvable through Finnhub.
func (c *FinnhubQuoteClient) Current(ctx context.Context, market domain.Market, symbol string) (float64, error) {
	if market != domain.MarketUS {
		return 0, fmt.Errorf("no quote backend for market %s", market)
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finnhub quote returned %s", resp.Status)
	}

	var quote finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("decode quote: %w", err)
	}
	if quote.Current <= 0 {
		return 0, fmt.Errorf("no price for %s", symbol)
	}
	return quote.Current, nil
}
