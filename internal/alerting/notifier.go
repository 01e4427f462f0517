// Package alerting forwards provider status transitions to operators.
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/provider"
)

// Notification describes one provider state change.
type Notification struct {
	Provider string
	From     provider.State
	To       provider.State
	Kind     string
	Error    string
	Set      string
	At       time.Time
}

// Recovered reports whether the change is a return to connected.
func (n Notification) Recovered() bool {
	return n.To == provider.StateConnected
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// Worth reports whether a transition should be sent at all: entering the
// error state, or leaving it for connected.
func Worth(from, to provider.State) bool {
	if from == to {
		return false
	}
	return to == provider.StateError || (from == provider.StateError && to == provider.StateConnected)
}

// TelegramNotifier posts messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls sendMessage with the rendered text.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().Str("provider", note.Provider).
		Str("from", string(note.From)).
		Str("to", string(note.To)).
		Msg("status alert sent")
	return nil
}

func renderMessage(note Notification) string {
	builder := strings.Builder{}
	if note.Recovered() {
		builder.WriteString("[bondfeed] provider recovered\n")
	} else {
		builder.WriteString("[bondfeed] provider failing\n")
	}
	builder.WriteString(fmt.Sprintf("Provider: %s\n", note.Provider))
	builder.WriteString(fmt.Sprintf("State: %s -> %s\n", note.From, note.To))
	if note.Set != "" {
		builder.WriteString(fmt.Sprintf("Set: %s\n", note.Set))
	}
	if note.Kind != "" {
		builder.WriteString(fmt.Sprintf("Kind: %s\n", note.Kind))
	}
	builder.WriteString(fmt.Sprintf("At: %s UTC\n", note.At.UTC().Format(time.RFC3339)))
	if note.Error != "" {
		builder.WriteString(note.Error)
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
