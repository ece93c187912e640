package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

// APIClient wraps Hertz Client for HTTP communication with the knowledge backend.
// Every method issues exactly one request; nothing is retried or cached.
type APIClient struct {
	client  *client.Client
	server  string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an APIClient
type Option func(*APIClient)

// WithTimeout bounds every request
func WithTimeout(timeout time.Duration) Option {
	return func(c *APIClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request logs
func WithLogger(logger *slog.Logger) Option {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewAPIClient creates a new API client
func NewAPIClient(server string, opts ...Option) (*APIClient, error) {
	if server == "" {
		server = defaultServer
	}

	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	c := &APIClient{
		server:  normalizedServer,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithClientReadTimeout(c.timeout),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	c.client = hc

	return c, nil
}

// Server returns the normalized backend address
func (c *APIClient) Server() string {
	return c.server
}

// normalizeServerURL normalizes server URL to ensure it has a scheme and no trailing slash
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// requestBuilder fills method-specific parts of a request
type requestBuilder func(req *protocol.Request) error

// jsonBody encodes v as the JSON request body
func jsonBody(v interface{}) requestBuilder {
	return func(req *protocol.Request) error {
		bodyBytes, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(bodyBytes)
		return nil
	}
}

// do sends one request and decodes a 2xx body into out (when out is non-nil).
// Transport failures wrap ErrTransport; non-2xx responses return *APIError.
func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, build requestBuilder, out interface{}) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	uri := c.server + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	req.SetMethod(method)
	req.SetRequestURI(uri)
	req.Header.Set("Accept", "application/json")

	if build != nil {
		if err := build(req); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}

	start := time.Now()
	if err := c.client.DoTimeout(ctx, req, resp, c.timeout); err != nil {
		c.logger.DebugContext(ctx, "request failed",
			"method", method,
			"path", path,
			"latency", time.Since(start),
			"error", err,
		)
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}

	statusCode := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)

	c.logger.DebugContext(ctx, "request completed",
		"method", method,
		"path", path,
		"status", statusCode,
		"latency", time.Since(start),
		"bytes", len(body),
	)

	if statusCode < 200 || statusCode >= 300 {
		return newAPIError(statusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to unmarshal response: %v", ErrDecode, err)
	}

	return nil
}

