// Package telegram sends admin notifications through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/radarpolitico/kirvanohook/pkg/kirvano"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org"
	defaultHTTPTimeout = 10 * time.Second
)

// Config holds configuration for the Telegram notifier.
type Config struct {
	// BotToken is the Telegram bot API credential. When empty, every
	// notification is skipped silently (log only).
	BotToken string

	// ChatID is the fixed destination chat. When empty, notifications are
	// skipped the same way.
	ChatID string

	// HTTPClient is an optional HTTP client for API calls.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client

	// Logger receives structured logs. If nil, logging is disabled.
	Logger kirvano.Logger

	// BaseURL overrides the Telegram API base URL. Tests point it at a
	// local server.
	BaseURL string
}

// Notifier implements kirvano.Notifier against the Telegram sendMessage
// endpoint. Delivery is best-effort: one POST, no retry, no dead letter.
type Notifier struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     kirvano.Logger
}

// NewNotifier creates a Notifier from the given configuration.
func NewNotifier(config Config) *Notifier {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = &kirvano.NoopLogger{}
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = telegramAPIBaseURL
	}

	return &Notifier{
		botToken:   strings.TrimSpace(config.BotToken),
		chatID:     strings.TrimSpace(config.ChatID),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Configured reports whether both the bot token and the destination chat
// are set.
func (n *Notifier) Configured() bool {
	return n.botToken != "" && n.chatID != ""
}

// sendMessageRequest is the Telegram Bot API sendMessage body.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Notify sends one HTML-formatted message to the configured chat. When the
// notifier is not configured it logs and returns nil; callers never need to
// special-case the unconfigured state.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if !n.Configured() {
		n.logger.Warn("bot token or admin chat id not configured, skipping notification")
		return nil
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("telegram API returned status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	n.logger.Info("admin notified")
	return nil
}
