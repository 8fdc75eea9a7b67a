package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

const (
	// DefaultTimeout is the fixed per-request deadline.
	DefaultTimeout = 5 * time.Second

	requestIDHeader          = "X-Request-Id"
	errorBodyReadLimit int64 = 4096
)

var errBaseURLRequired = errors.New("storefront api base url is required")

// Shopper is the credential attached to cart and order calls. Token wins when set.
type Shopper struct {
	Token   string
	GuestID string
}

// Authenticated reports whether a bearer token will be sent.
func (s Shopper) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Client talks to the storefront REST backend. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.APIClientMetrics
	logg       *logger.Logger
	tracing    bool
	timeout    time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request deadline. It applies to the client passed to
// WithHTTPClient too, whatever the option order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMetrics records every call on m.
func WithMetrics(m *metrics.APIClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger enables debug logging of calls.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing() Option {
	return func(c *Client) {
		c.tracing = true
	}
}

// NewClient builds the storefront client for baseURL (for example "https://shop.example/api").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if u, err := url.Parse(trimmed); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid storefront api base url %q", baseURL)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.timeout == 0 && !client.tracing {
		return client, nil
	}

	// Work on a copy so a caller supplied client is never mutated.
	configured := *client.httpClient
	if client.timeout > 0 {
		configured.Timeout = client.timeout
	}
	if client.tracing {
		base := configured.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		configured.Transport = otelhttp.NewTransport(base)
	}
	client.httpClient = &configured

	return client, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	shopper  *Shopper
	body     any
}

type validatable interface {
	Validate() error
}

func (c *Client) do(ctx context.Context, req call, out any) (err error) {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "storefront client not configured")
	}

	start := time.Now()
	requestID := uuid.NewString()
	defer func() {
		c.observe(ctx, req, requestID, start, err)
	}()

	var body io.Reader
	if req.body != nil {
		payload, marshalErr := json.Marshal(req.body)
		if marshalErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, marshalErr, "marshal "+req.endpoint+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.endpoint+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.shopper != nil && req.shopper.Authenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(req.shopper.Token))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, networkMessage(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "unexpected response from server")
	}
	if v, ok := out.(validatable); ok {
		if err := v.Validate(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "unexpected response from server")
		}
	}
	return nil
}

func (c *Client) observe(ctx context.Context, req call, requestID string, start time.Time, err error) {
	took := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = string(pkgerrors.As(err).Code())
	}
	c.metrics.Observe(req.endpoint, outcome, took)

	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"endpoint":    req.endpoint,
		"method":      req.method,
		"path":        req.path,
		"outcome":     outcome,
		"duration_ms": took.Milliseconds(),
	})
	ctx = c.logg.WithRequestID(ctx, requestID)
	c.logg.Debug(ctx, "storefront.call")
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	code := pkgerrors.FromHTTPStatus(resp.StatusCode)

	var parsed types.ErrorBody
	message := ""
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		message = strings.TrimSpace(parsed.Message)
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	typed := pkgerrors.Wrap(code, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), message)
	if parsed.Details != nil {
		typed = typed.WithDetails(parsed.Details)
	}
	return typed
}

func networkMessage(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "the server took too long to respond"
	}
	return "could not reach the server"
}

func (c *Client) buildURL(path string, query url.Values) string {
	path = strings.TrimLeft(path, "/")
	u := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func guestQuery(shopper Shopper) url.Values {
	if shopper.Authenticated() || strings.TrimSpace(shopper.GuestID) == "" {
		return nil
	}
	return url.Values{"guestId": []string{shopper.GuestID}}
}

func guestField(shopper Shopper) string {
	if shopper.Authenticated() {
		return ""
	}
	return strings.TrimSpace(shopper.GuestID)
}
