// Package httpx wraps net/http with the retry, backoff and response-size
// policies shared by every upstream API adapter.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// MaxResponseSize caps how much of an upstream body is read.
	MaxResponseSize = 5 * 1024 * 1024

	defaultRetries = 2
	defaultBackoff = 500 * time.Millisecond
	defaultTimeout = 30 * time.Second
)

// Client is a JSON GET client with retry and backoff. The zero value is not
// usable; construct with NewClient.
type Client struct {
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries overrides the retry count.
func WithRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff overrides the base backoff delay.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient builds a Client with pooled transport and default policies.
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		maxRetries: defaultRetries,
		backoff:    defaultBackoff,
		userAgent:  userAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError reports a non-2xx response that was not retried to success.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}

// FetchJSON issues a GET with query params and decodes the JSON body into
// out. Retryable statuses (429, 5xx) and network errors are retried with
// exponential backoff; a 429 Retry-After header overrides the backoff delay.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, params map[string]string, out any) error {
	body, err := c.Get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}
	return nil
}

// Get issues a GET with query params and returns the raw body, capped at
// MaxResponseSize.
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			log.Debug().
				Str("url", rawURL).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("Retrying request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, retryable, err := c.doOnce(ctx, rawURL, params, &delay)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, rawURL string, params map[string]string, delay *time.Duration) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request to %s failed: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}
	if len(body) > MaxResponseSize {
		return nil, false, fmt.Errorf("response from %s exceeds %d bytes", rawURL, MaxResponseSize)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		if wait := retryAfter(resp.Header.Get("Retry-After")); wait > 0 {
			*delay = wait
		}
		log.Warn().
			Str("url", rawURL).
			Dur("retry_after", *delay).
			Msg("Rate limited by upstream")
		return nil, true, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}

	case resp.StatusCode >= 500:
		return nil, true, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}

	default:
		return nil, false, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
