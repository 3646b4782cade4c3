package ivol

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client provides access to the iVolatility REST API.
type Client struct {
	rest   *resty.Client
	gate   *RateGate
	logger *slog.Logger

	timeout      time.Duration
	rateRequests int
	rateWindow   time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. The rate gate is created with
// the client and shared by all callers; every request blocks on it.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		logger:       slog.Default(),
		timeout:      30 * time.Second,
		rateRequests: 40,
		rateWindow:   time.Minute,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.rest == nil {
		c.rest = resty.New()
	}
	c.rest.
		SetBaseURL(baseURL).
		SetTimeout(c.timeout).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")

	c.gate = NewRateGate(c.rateRequests, c.rateWindow)

	return c
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit sets the permit budget: n requests per window.
func WithRateLimit(n int, window time.Duration) ClientOption {
	return func(c *Client) {
		c.rateRequests = n
		c.rateWindow = window
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.rest = resty.NewWithClient(hc)
	}
}

// Gate exposes the client's rate gate so fan-out orchestrators can reason
// about the shared budget. All endpoint methods acquire internally.
func (c *Client) Gate() *RateGate {
	return c.gate
}

// Close releases the client's resources.
func (c *Client) Close() {
	c.rest.GetClient().CloseIdleConnections()
}

// get performs a single rate-limited GET. No retry here: transient errors
// propagate to the retry executor with their classification intact.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	if err := c.gate.Acquire(ctx); err != nil {
		return err
	}

	reqID := uuid.NewString()
	start := time.Now()

	var apiErr apiErrorBody
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return classifyTransport(err)
	}

	c.logger.Debug("vendor request",
		"path", path,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
		"request_id", reqID,
	)

	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    msg,
			RequestID:  reqID,
		}
	}

	return nil
}

// apiErrorBody is the vendor's error envelope.
type apiErrorBody struct {
	Message string `json:"message"`
}
