// Package httpclient is the JSON transport used to reach the products API.
// Every failure it returns is a *domain.Error.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/infrastructure/telemetry"
)

const (
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 60 * time.Second

	// MsgNoResponse is the message of failures where no response arrived.
	MsgNoResponse = "No response from server"

	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

// Client issues JSON requests relative to a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for baseURL. A non-positive timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get decodes the response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put sends body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues DELETE path and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one exchange. body is JSON-encoded when non-nil; out, when
// non-nil, receives the decoded response of a 2xx status.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &domain.Error{Kind: domain.KindUnknown, Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		reader = bytes.NewReader(data)
	}

	requestID := telemetry.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = telemetry.WithRequestID(ctx, requestID)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &domain.Error{Kind: domain.KindUnknown, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Request got no response",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return &domain.Error{Kind: domain.KindTransport, Message: MsgNoResponse, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.Error{Kind: domain.KindTransport, Message: MsgNoResponse, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.DebugContext(ctx, "Request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.Error{
			Kind:       domain.KindTransport,
			Message:    fmt.Sprintf("decode response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// responseError normalizes a non-2xx response. The message comes from the
// body's message field when present, else from the status text.
func responseError(status int, data []byte) *domain.Error {
	kind := domain.KindTransport
	if status == http.StatusNotFound {
		kind = domain.KindNotFound
	}

	var body errorBody
	msg := http.StatusText(status)
	if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Message) != "" {
		msg = body.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}

	return &domain.Error{Kind: kind, Message: msg, StatusCode: status}
}
