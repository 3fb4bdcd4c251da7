// SPDX-License-Identifier: AGPL-3.0-only

// Package c2s is the gateway to the platform backend's client-to-server
// API. One method per interaction; transport failures on idempotent
// calls are retried a fixed number of times, everything else surfaces
// immediately.
package c2s

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// extraAttempts is how many times an idempotent call is re-sent after a
// transport failure before giving up. Non-2xx responses are never
// retried.
const extraAttempts = 2

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string

	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// WithToken returns a shallow copy of the client that authenticates as
// the holder of token. The zero token means anonymous.
func (c *Client) WithToken(token string) *Client {
	dup := *c
	dup.Token = token
	return &dup
}

// StatusError is a non-2xx answer from the backend. Transport failures
// are plain wrapped errors carrying no status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.Code)
}

// do sends one request, optionally retrying transport failures, and
// decodes the response body into out when out is non-nil. A literal
// null body leaves out at its zero value rather than failing.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, body any, retry bool, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	attempts := 1
	if retry {
		attempts += extraAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.URL.RawQuery = rawQuery
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-Id", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Debug("transport failure",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &StatusError{Code: resp.StatusCode, Body: string(data)}
		}
		if readErr != nil {
			return fmt.Errorf("read response body: %w", readErr)
		}
		if out == nil {
			return nil
		}
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return nil
		}
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("send request: %w", lastErr)
}

// encodeQueryComponent percent-encodes the way browsers do for query
// parts: spaces become %20, never +.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
