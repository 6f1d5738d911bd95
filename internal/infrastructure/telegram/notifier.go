package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockRadar/internal/ports"
)

const telegramAPIBase = "https://api.telegram.org"

// Notifier sends alert messages to a Telegram chat via the bot API. Delivery
// is best-effort: failures are logged and reported, never retried, so a
// broken bot token cannot stall the scan loop.
type Notifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string, logger *slog.Logger) *Notifier {
	return &Notifier{
		apiBase:  telegramAPIBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Send posts a Markdown message to the configured chat and reports whether
// Telegram accepted it.
func (n *Notifier) Send(ctx context.Context, text string) bool {
	if n.botToken == "" || n.chatID == "" {
		n.warn("telegram notifier misconfigured, dropping message")
		return false
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		n.warn("build telegram request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		n.warn("telegram request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.warn("telegram rejected message", "status", resp.Status, "body", string(body))
		return false
	}

	return true
}

func (n *Notifier) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
