package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Dispatcher delivers notifications to a single webhook URL. A Dispatcher
// with an empty URL drops everything.
type Dispatcher struct {
	url    string
	client *http.Client
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher posting to url.
func NewDispatcher(url string) *Dispatcher {
	return &Dispatcher{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a webhook is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.url != ""
}

// Notify sends n in the background. Delivery failures are logged and
// never retried.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if !d.Enabled() {
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.Dispatch(ctx, n); err != nil {
			slog.Warn("webhook delivery failed", "type", n.Type, "error", err)
		}
	}()
}

// Dispatch sends n and waits for the webhook to answer.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	return d.SendWebhook(ctx, d.url, payload)
}

// Wait blocks until background deliveries have finished.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
