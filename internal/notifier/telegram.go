package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// TelegramNotifier sends reports via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken   string
	ChatID     string
	Client     *http.Client
	MaxRetries int
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		MaxRetries: 3,
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// Notify sends the text with exponential backoff retry.
func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	var lastErr error
	for attempt := 0; attempt <= t.MaxRetries; attempt++ {
		if err := t.send(ctx, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[WARN] telegram send failed (attempt %d/%d): %v, retrying in %v",
				attempt+1, t.MaxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", t.MaxRetries+1, lastErr)
}

func (t *TelegramNotifier) send(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.ChatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}
