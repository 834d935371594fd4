// Package api is the HTTP client of the blogging platform backend.
//
// Every method takes a context, performs exactly one request and returns the decoded body.
// Failures are always *RequestError or *NetworkError; raw transport errors stay wrapped inside.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// DefaultBaseURL points at a locally running backend.
	DefaultBaseURL = "http://localhost:8082/api"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent on every request unless overridden.
	DefaultUserAgent = "blogctl/1.0"
)

// TokenSource yields the current credential. It is consulted on every request so that
// login and logout are reflected immediately.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// UnauthorizedHandler is called once for every response with status 401.
type UnauthorizedHandler func(op string)

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	tokens     TokenSource
	log        *slog.Logger
	metrics    *Metrics

	onUnauthorized atomic.Pointer[UnauthorizedHandler]
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the API root, including the /api prefix.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) {
		c.SetUnauthorizedHandler(h)
	}
}

// NewClient creates a client. tokens may be nil for anonymous use.
func NewClient(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tokens: tokens,
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetUnauthorizedHandler replaces the global 401 hook. A nil handler disables it.
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	if h == nil {
		c.onUnauthorized.Store(nil)
		return
	}
	c.onUnauthorized.Store(&h)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
