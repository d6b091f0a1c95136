// Package apiclient is the portal's single path to the HRMS REST backend.
package apiclient

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
	"sync"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/metrics"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/requestctx"
)

const maxErrorBody = 1 << 20

type tokenKey struct{}

// WithToken attaches the bearer token used by calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	if value, ok := ctx.Value(tokenKey{}).(string); ok {
		return value
	}
	return ""
}

// InvalidateFunc tears down the caller's session after the backend rejected its token.
type InvalidateFunc func(ctx context.Context)

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Collector
	logger     *slog.Logger

	mu         sync.RWMutex
	invalidate InvalidateFunc
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithInvalidate(fn InvalidateFunc) Option {
	return func(c *Client) { c.invalidate = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnInvalidate replaces the invalidation hook.
func (c *Client) OnInvalidate(fn InvalidateFunc) {
	c.mu.Lock()
	c.invalidate = fn
	c.mu.Unlock()
}

func (c *Client) Get(ctx context.Context, path string, q *Query, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, q, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) PostQuery(ctx context.Context, path string, q *Query, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, q, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) PutQuery(ctx context.Context, path string, q *Query, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, q, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, q *Query, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, q, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		c.logger.Warn("backend response decode failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, q *Query, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := requestctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	return req, nil
}

// send performs req and converts non-2xx responses into *Error, running the
// invalidation hook when the token was rejected. On success the caller owns
// the response body.
func (c *Client) send(req *http.Request, path string) (*http.Response, error) {
	ctx := req.Context()
	resource := resourceOf(path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackend(resource, 0, time.Since(start))
		c.logger.Warn("backend call failed",
			"method", req.Method, "path", path, "requestId", requestctx.GetRequestID(ctx), "err", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	c.metrics.RecordBackend(resource, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 400 {
		return resp, nil
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := parseError(resp.StatusCode, raw)
	if IsInvalidSession(apiErr.Status, apiErr.Message) {
		apiErr.invalid = true
		c.metrics.RecordInvalidation()
		c.mu.RLock()
		invalidate := c.invalidate
		c.mu.RUnlock()
		if invalidate != nil {
			invalidate(context.WithoutCancel(ctx))
		}
	}
	c.logger.Warn("backend call rejected",
		"method", req.Method,
		"path", path,
		"status", apiErr.Status,
		"message", apiErr.Message,
		"sessionInvalid", apiErr.invalid,
		"requestId", requestctx.GetRequestID(ctx),
	)
	return nil, apiErr
}

func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}

// PathEscape escapes a single path segment such as an id.
func PathEscape(segment string) string {
	return url.PathEscape(segment)
}
