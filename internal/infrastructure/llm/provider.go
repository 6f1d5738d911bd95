package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrQuotaExceeded marks a provider rejection caused by rate or quota limits.
var ErrQuotaExceeded = errors.New("model quota exceeded")

// ErrEmptyResponse marks a backend reply carrying no generated text.
var ErrEmptyResponse = errors.New("model returned no content")

// MalformedResponseError marks generated text that failed schema parsing.
type MalformedResponseError struct {
	Model string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model %s produced malformed output: %v", e.Model, e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Provider is one model behind the assess capability. Providers are tried in
// priority order; any error advances the gateway to the next one.
type Provider interface {
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiProvider calls a single model of the Gemini generateContent REST API.
type GeminiProvider struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider wires one model identifier against the API endpoint.
func NewGeminiProvider(endpoint, model, apiKey string, client *http.Client) *GeminiProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GeminiProvider{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
		client:   client,
	}
}

// Model identifies the provider inside fallback logs.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Generate posts the prompt and returns the raw generated text.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini provider misconfigured: missing api key")
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]string{
			"responseMimeType": "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	target := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.endpoint, p.model, url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model %s: %w", p.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("model %s: %w", p.model, ErrQuotaExceeded)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model %s returned %s: %s",
			p.model, resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model %s: %w", p.model, ErrEmptyResponse)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
