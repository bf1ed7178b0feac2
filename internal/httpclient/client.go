package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auto-api-agent/internal/config"
)

// Response is the outcome of a dispatched request
type Response struct {
	Status int
	Data   interface{}
}

// apiError is a non-2xx backend response. It is not retried.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.status)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.status, e.body)
}

// Client performs outbound HTTP requests against the backend: auth header
// injection, JSON encoding/decoding, and bounded retry on transport errors
type Client struct {
	baseURL string
	client  *http.Client
	auth    config.AuthConfig
	retry   config.RetryConfig
	logger  *slog.Logger
}

// NewClient creates a new instance of Client
func NewClient(baseURL string, httpConfig config.HTTPConfig, auth config.AuthConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(httpConfig.Timeout) * time.Second},
		auth:    auth,
		retry:   httpConfig.Retry,
		logger:  logger,
	}
}

// Request performs one HTTP call. Transport failures are retried with a fixed
// delay; backend error statuses surface immediately as descriptive errors.
func (c *Client) Request(ctx context.Context, method, path string, query map[string]interface{}, body interface{}) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, fmt.Sprint(value))
		}
		target = fmt.Sprintf("%s?%s", target, values.Encode())
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.attempts(); attempt++ {
		resp, err := c.do(ctx, method, target, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var backend *apiError
		if errors.As(err, &backend) {
			return nil, err
		}
		c.logger.Warn("request attempt failed", "method", method, "url", target, "attempt", attempt+1, "error", err)

		// No delay after the final attempt
		if attempt+1 == c.attempts() {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(c.retry.Delay) * time.Second):
		}
	}
	return nil, lastErr
}

// do executes a single request attempt
func (c *Client) do(ctx context.Context, method, target string, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.auth.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &apiError{status: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	result := &Response{Status: resp.StatusCode}
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &result.Data); err != nil {
			result.Data = string(raw)
		}
	} else if len(raw) > 0 {
		result.Data = string(raw)
	}
	return result, nil
}

func (c *Client) attempts() int {
	if c.retry.Attempts < 1 {
		return 1
	}
	return c.retry.Attempts
}
