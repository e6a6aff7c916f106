package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
)

// Mailer sends a transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// WebhookMailer posts mail jobs to the configured mail webhook.
type WebhookMailer struct {
	url        string
	apiKey     string
	fromName   string
	httpClient *http.Client
}

// NewWebhookMailer builds a mailer from config. Returns nil when no
// webhook URL is configured so callers can skip mail dispatch.
func NewWebhookMailer(cfg config.MailConfig) *WebhookMailer {
	if cfg.WebhookURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookMailer{
		url:        cfg.WebhookURL,
		apiKey:     cfg.APIKey,
		fromName:   cfg.FromName,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type mailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	FromName string `json:"from_name,omitempty"`
}

// Send posts one mail job. Non-2xx responses are returned as errors so
// the consumer can retry.
func (m *WebhookMailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(mailPayload{
		To:       to,
		Subject:  subject,
		Body:     body,
		FromName: m.fromName,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail webhook returned %d", resp.StatusCode)
	}
	return nil
}
