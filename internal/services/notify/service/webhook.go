package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "kudos/internal/platform/errors"
)

// Webhook posts notifications to a configured endpoint
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook builds a webhook channel for url
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{url: url, client: &http.Client{Timeout: timeout}}
}

// Name implements Channel
func (w *Webhook) Name() string { return "webhook" }

// Send implements Channel
func (w *Webhook) Send(ctx context.Context, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return perr.Internalf("encode notification: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return perr.Internalf("build webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return perr.Unavailablef("webhook: %v", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return perr.Unavailablef("webhook: status %d", resp.StatusCode)
	}
	return nil
}
