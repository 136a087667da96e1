package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Telegram sends transitions to a chat via the Bot API.
type Telegram struct {
	Token  string
	ChatID string
	Client *http.Client
	// APIBase is overridable in tests; empty means the real Bot API.
	APIBase string
}

// NewTelegram returns nil unless both token and chat are configured.
func NewTelegram(token, chatID string) *Telegram {
	if token == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		Token:  token,
		ChatID: chatID,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramPayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (t *Telegram) Send(ctx context.Context, title, text string) error {
	if t == nil || t.Token == "" {
		return fmt.Errorf("telegram disabled")
	}
	base := t.APIBase
	if base == "" {
		base = "https://api.telegram.org"
	}
	endpoint := base + "/bot" + t.Token + "/sendMessage"

	body, _ := json.Marshal(telegramPayload{ChatID: t.ChatID, Text: title + "\n" + text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram: unexpected status %s", resp.Status)
	}
	return nil
}
