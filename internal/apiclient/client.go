package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	httpdomain "salonathome.in/cli/internal/core/domain/http"
	httpports "salonathome.in/cli/internal/core/ports/http"
	httpinfra "salonathome.in/cli/internal/infrastructure/http"
	"salonathome.in/cli/internal/logging"
	"salonathome.in/cli/internal/metrics"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 2
	DefaultRefreshPath = "/auth/refresh-token"

	requestIDHeader = "X-Request-Id"
	logoutMarker    = "/logout"
)

var successEnvelope = []byte(`{"success":true}`)

// Config holds the client's transport settings.
type Config struct {
	BaseURL     string
	RefreshPath string
	Timeout     time.Duration
	MaxRetries  int
	UserAgent   string
}

// DefaultConfig returns a config with production timings and no base URL.
func DefaultConfig() Config {
	return Config{
		RefreshPath: DefaultRefreshPath,
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		UserAgent:   "salonathome-cli/1.0",
	}
}

// Requester is the call surface services depend on.
type Requester interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error)
	Patch(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error)
}

// Client issues credential-bearing JSON calls and recovers once per retry
// slot from an expired access token by calling the refresh endpoint.
type Client struct {
	endpoint   httpdomain.BackendEndpoint
	timeout    time.Duration
	maxRetries int

	httpClient *http.Client
	requester  httpports.HttpRequester
	notifier   *LogoutNotifier
	logger     *zap.Logger
	metrics    *metrics.ClientMetrics

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient supplies the cookie-bearing client. Its Jar is the
// credential store; the API client never reads it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequester replaces the transport entirely.
func WithRequester(r httpports.HttpRequester) Option {
	return func(c *Client) { c.requester = r }
}

// New builds a client. A nil notifier gets a private one with default timings.
func New(cfg Config, notifier *LogoutNotifier, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RefreshPath == "" {
		cfg.RefreshPath = def.RefreshPath
	}

	c := &Client{
		endpoint: httpdomain.BackendEndpoint{
			BaseURL:     cfg.BaseURL,
			RefreshPath: cfg.RefreshPath,
			UserAgent:   cfg.UserAgent,
		},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		notifier:   notifier,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = logging.OrNop(c.logger)
	if c.notifier == nil {
		c.notifier = NewLogoutNotifier(DefaultLogoutConfig(), c.logger)
	}
	if c.requester == nil {
		if c.httpClient == nil {
			jar, _ := cookiejar.New(nil)
			c.httpClient = &http.Client{Jar: jar}
		}
		c.requester = httpinfra.NewStdHttpRequester(c.httpClient, c.timeout)
	}
	return c
}

// Notifier returns the logout notifier the client signals on expiry.
func (c *Client) Notifier() *LogoutNotifier {
	return c.notifier
}

// Endpoint returns the resolved backend settings.
func (c *Client) Endpoint() httpdomain.BackendEndpoint {
	return c.endpoint
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, buildRequest(http.MethodGet, path, nil, opts))
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, buildRequest(http.MethodPost, path, body, opts))
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, buildRequest(http.MethodPut, path, body, opts))
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, buildRequest(http.MethodPatch, path, body, opts))
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, buildRequest(http.MethodDelete, path, nil, opts))
}

// Do runs one logical call: send, and on 401 refresh and re-send, at most
// maxRetries times. Requests to a logout endpoint are never refreshed.
func (c *Client) Do(ctx context.Context, req httpdomain.Request) (json.RawMessage, error) {
	attempt, err := c.prepare(req)
	if err != nil {
		return nil, err
	}
	refreshable := !strings.Contains(req.Path, logoutMarker)

	for retry := 0; ; retry++ {
		reply, err := c.send(ctx, attempt)
		if err != nil {
			return nil, err
		}
		if reply.OK() {
			return envelope(reply)
		}

		if reply.Status == http.StatusUnauthorized && retry < c.maxRetries && refreshable {
			c.logger.Info("access token rejected, refreshing",
				zap.String("request_id", attempt.Headers[requestIDHeader]),
				zap.String("path", req.Path),
				zap.Int("retry", retry+1))
			if err := c.refresh(ctx); err != nil {
				return nil, err
			}
			continue
		}

		return nil, parseAPIError(reply.Status, reply.Body)
	}
}

func (c *Client) prepare(req httpdomain.Request) (httpdomain.Attempt, error) {
	defaults := httpinfra.DefaultHeaders()
	if c.endpoint.UserAgent != "" {
		defaults["User-Agent"] = c.endpoint.UserAgent
	}
	headers := httpinfra.MergeHeaders(defaults, req.Headers)
	if headers[requestIDHeader] == "" {
		headers[requestIDHeader] = uuid.NewString()
	}

	attempt := httpdomain.Attempt{
		Method:  req.Method,
		URL:     c.endpoint.Resolve(req.Path),
		Headers: headers,
	}
	if req.HasBody() {
		body := req.Body
		if body == nil {
			body = struct{}{}
		}
		data, err := json.Marshal(body)
		if err != nil {
			return attempt, &Error{Message: fmt.Sprintf("failed to encode request body: %v", err), Err: err}
		}
		attempt.Body = data
	}
	return attempt, nil
}

// send performs one attempt and maps transport failures onto *Error.
func (c *Client) send(ctx context.Context, attempt httpdomain.Attempt) (*httpdomain.Reply, error) {
	start := time.Now()
	reply, err := c.requester.Do(ctx, attempt)
	elapsed := time.Since(start)

	fields := []zap.Field{
		zap.String("request_id", attempt.Headers[requestIDHeader]),
		zap.String("method", attempt.Method),
		zap.String("url", attempt.URL),
		zap.Duration("elapsed", elapsed),
	}

	if err != nil {
		c.metrics.ObserveAttempt(attempt.Method, 0, elapsed)
		c.logger.Debug("request failed", append(fields, zap.Error(err))...)
		if errors.Is(err, context.Canceled) {
			return nil, contextError(err)
		}
		return nil, newTransportError(isTimeout(err), err)
	}

	c.metrics.ObserveAttempt(attempt.Method, reply.Status, elapsed)
	c.logger.Debug("request completed", append(fields, zap.Int("status", reply.Status))...)
	return reply, nil
}

// refresh obtains a new access token. Concurrent callers share one request,
// which outlives any single caller; a caller whose ctx ends stops waiting.
func (c *Client) refresh(ctx context.Context) error {
	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		return nil, c.refreshOnce(context.WithoutCancel(ctx))
	})
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		c.logger.Debug("caller left before token refresh finished", zap.Error(ctx.Err()))
		return contextError(ctx.Err())
	}
}

func contextError(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Message: "Request canceled", Err: err}
	}
	return newTransportError(true, err)
}

func (c *Client) refreshOnce(ctx context.Context) error {
	attempt, err := c.prepare(httpdomain.Request{Method: http.MethodPost, Path: c.endpoint.RefreshPath})
	if err != nil {
		return err
	}

	reply, err := c.send(ctx, attempt)
	if err != nil {
		c.metrics.ObserveRefresh(metrics.RefreshTransient)
		c.logger.Warn("token refresh failed, keeping session", zap.Error(err))
		return err
	}
	if reply.OK() {
		c.metrics.ObserveRefresh(metrics.RefreshSucceeded)
		c.logger.Debug("token refreshed")
		return nil
	}

	refreshErr := parseAPIError(reply.Status, reply.Body)
	switch reply.Status {
	case http.StatusUnauthorized, http.StatusBadRequest:
		c.metrics.ObserveRefresh(metrics.RefreshExpired)
		c.notifier.Expire(refreshErr.Message)
		return newSessionExpiredError(refreshErr)
	default:
		c.metrics.ObserveRefresh(metrics.RefreshTransient)
		c.logger.Warn("token refresh rejected, keeping session",
			zap.Int("status", reply.Status), zap.String("message", refreshErr.Message))
		return refreshErr
	}
}

func envelope(reply *httpdomain.Reply) (json.RawMessage, error) {
	if !reply.IsJSON() || len(bytes.TrimSpace(reply.Body)) == 0 {
		out := make([]byte, len(successEnvelope))
		copy(out, successEnvelope)
		return out, nil
	}
	if !json.Valid(reply.Body) {
		return nil, &Error{Message: MsgInvalidResponse, Status: reply.Status, Err: ErrInvalidResponse}
	}
	return json.RawMessage(reply.Body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Decode unmarshals an envelope into T.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

var _ Requester = (*Client)(nil)
