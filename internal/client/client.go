package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"muontra/internal/logger"
)

const (
	DefaultTimeout = 15 * time.Second
	serviceName    = "muontra-api"
)

// TransportError means the server could not be reached or did not answer in time.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot connect to server: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a 4xx/5xx answer. Message comes from the body when the server sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func(ctx context.Context) string

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// Client is the one configured gateway every domain call goes through.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends body as JSON (when non-nil) and decodes the answer into out (when non-nil).
// Nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, path string, out any) error {
	if c.token != nil {
		if token := c.token(req.Context()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.ExternalServiceCall(serviceName, path, "method", req.Method)
	resp, err := c.http.Do(req)
	if err != nil {
		terr := &TransportError{Op: req.Method + " " + path, Err: err}
		logger.ExternalServiceResult(serviceName, path, terr)
		return terr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{Op: req.Method + " " + path, Err: err}
		logger.ExternalServiceResult(serviceName, path, terr)
		return terr
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
		logger.ExternalServiceResult(serviceName, path, apiErr, "status", resp.StatusCode)
		return apiErr
	}
	logger.ExternalServiceResult(serviceName, path, nil, "status", resp.StatusCode)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// errorMessage prefers the body's "message" then "error" field, then a plain-text body.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 200 {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}
