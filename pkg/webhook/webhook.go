// Package webhook delivers generated component lists to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/paccor4esp/paccor4esp/pkg/config"
)

// DefaultTimeout is the default per-attempt HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DeliveryHeader carries an ID shared by all attempts of one delivery.
const DeliveryHeader = "X-Paccor-Delivery"

// Client sends component lists to webhook endpoints.
type Client struct {
	httpClient      *http.Client
	initialInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithInitialInterval sets the first retry delay; later delays grow
// exponentially.
func WithInitialInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.initialInterval = d
		}
	}
}

// NewClient creates a new webhook client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{},
		initialInterval: backoff.DefaultInitialInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Per-attempt timeout (uses DefaultTimeout if zero)
	Retries int           // Extra attempts after the first failure
}

// Response contains the result of a webhook delivery.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Attempts   int
	DeliveryID string
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.code)
}

// Send posts payload to a webhook endpoint. Network errors and 5xx responses
// are retried with exponential backoff; 4xx responses are not.
func (c *Client) Send(ctx context.Context, payload []byte, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{DeliveryID: uuid.NewString()}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	operation := func() error {
		resp.Attempts++
		code, body, err := c.post(ctx, payload, opts, timeout, resp.DeliveryID)
		resp.StatusCode = code
		resp.Body = body
		if err != nil {
			return err
		}
		if code >= 400 {
			err := &statusError{code: code}
			if code < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx)

	resp.Error = backoff.RetryNotify(operation, policy, func(err error, d time.Duration) {
		klog.V(1).Infof("Webhook %s: attempt %d failed (%v), retrying in %s", opts.URL, resp.Attempts, err, d)
	})
	resp.Duration = time.Since(start)
	return resp
}

func (c *Client) post(ctx context.Context, payload []byte, opts SendOptions, timeout time.Duration, id string) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "paccor4esp-webhook")
	req.Header.Set(DeliveryHeader, id)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 1024*1024)) // Limit to 1MB
	if err != nil {
		return httpResp.StatusCode, "", fmt.Errorf("failed to read response: %w", err)
	}

	return httpResp.StatusCode, string(body), nil
}

// ShouldFire reports whether a webhook with the given trigger fires for a
// run whose extraction was (or was not) complete.
func ShouldFire(trigger config.WebhookTrigger, complete bool) bool {
	switch trigger {
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerComplete:
		return complete
	default:
		return true
	}
}

// Deliver sends payload to every webhook whose trigger fires. Failures are
// logged and returned, never fatal.
func (c *Client) Deliver(ctx context.Context, hooks []config.WebhookConfig, payload []byte, complete bool) map[string]*Response {
	results := make(map[string]*Response, len(hooks))

	for _, wh := range hooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if !ShouldFire(wh.Trigger, complete) {
			klog.V(1).Infof("Webhook %s: skipped (trigger %s)", name, wh.Trigger)
			continue
		}

		resp := c.Send(ctx, payload, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
			Retries: wh.Retries,
		})
		results[name] = resp

		if resp.Success() {
			klog.Infof("Webhook %s: sent (%d, %s, delivery %s)", name, resp.StatusCode, resp.Duration, resp.DeliveryID)
		} else {
			klog.Warningf("Webhook %s: failed after %d attempt(s): %v", name, resp.Attempts, resp.Error)
		}
	}

	return results
}
