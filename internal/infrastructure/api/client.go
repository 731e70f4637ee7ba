// Package api is the HTTP access layer: the single choke point for outbound
// backend calls. It decorates requests with auth/tenant headers, normalizes
// failures into the Error taxonomy, tears the session down on authentication
// rejections, and offers a bounded TTL cache for idempotent reads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/auditax/console/internal/core/ports"
)

// DefaultTimeout bounds every request; the backend's slowest endpoint
// (batch classification kickoff) stays well under it.
const DefaultTimeout = 30 * time.Second

// basePath is the versioned prefix all backend routes live under.
const basePath = "/api/v1"

// Config carries the client's construction-time settings.
type Config struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
	// Storage provides the persisted token and empresa selection the client
	// reads its headers from, and that it clears on a 401.
	Storage ports.Storage
	// Navigator receives the redirect to the login boundary after a forced
	// teardown. Optional.
	Navigator ports.Navigator
	// OnAuthReject is invoked after a forced teardown so in-memory state can
	// follow the cleared storage. Optional.
	OnAuthReject func()

	Logger    zerolog.Logger
	CacheTTL  time.Duration
	CacheSize int

	// HTTPClient overrides the transport; tests use it.
	HTTPClient *http.Client
}

// Client is the access layer. All API wrappers go through Request.
type Client struct {
	base         *url.URL
	http         *http.Client
	store        ports.Storage
	nav          ports.Navigator
	onAuthReject func()
	log          zerolog.Logger
	cache        *Cache
}

// NewClient validates the configuration and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("api: Storage is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:         base,
		http:         httpClient,
		store:        cfg.Storage,
		nav:          cfg.Navigator,
		onAuthReject: cfg.OnAuthReject,
		log:          cfg.Logger,
		cache:        NewCache(cfg.CacheSize, cfg.CacheTTL),
	}, nil
}

// Cache exposes the client's read cache for Cached calls.
func (c *Client) Cache() *Cache { return c.cache }

type requestOptions struct {
	header http.Header
	query  url.Values
	token  string // explicit bearer override (token validation)
}

// RequestOption tweaks a single request.
type RequestOption func(*requestOptions)

// WithHeader sets one extra header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Set(key, value)
	}
}

// WithQuery attaches query parameters.
func WithQuery(values url.Values) RequestOption {
	return func(o *requestOptions) { o.query = values }
}

// WithToken sends the given bearer token instead of the stored one.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) { o.token = token }
}

// Request performs one backend call.
//
// body is JSON-encoded unless it is nil or an io.Reader (pre-encoded
// payloads such as multipart uploads). out, when non-nil, receives the
// decoded JSON response; pass *[]byte to capture the raw body instead.
// A 2xx response whose body carries {"success": false} is reported as an
// API error.
func (c *Client) Request(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	req, err := c.newRequest(ctx, method, path, body, &o)
	if err != nil {
		RequestErrorsTotal.WithLabelValues(string(KindUnknown)).Inc()
		return unknownError(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		RequestErrorsTotal.WithLabelValues(string(KindNetwork)).Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed in transit")
		return networkError(err)
	}
	defer resp.Body.Close()

	RequestsTotal.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		RequestErrorsTotal.WithLabelValues(string(KindNetwork)).Inc()
		return networkError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceTeardown(ctx)
	}
	if resp.StatusCode >= 400 {
		apiErr := decodeFailure(resp.StatusCode, raw)
		RequestErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		return apiErr
	}

	if err := decodeSuccess(raw, out); err != nil {
		RequestErrorsTotal.WithLabelValues(string(ErrorKind(err))).Inc()
		return err
	}
	return nil
}

// Get, Post, Put and Del are convenience wrappers over Request.

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) Del(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, o *requestOptions) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + basePath + path
	if o.query != nil {
		u.RawQuery = o.query.Encode()
	}

	var reader io.Reader
	contentType := "application/json"
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
		contentType = "" // caller sets it via WithHeader
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for key, values := range o.header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	c.attachAuth(ctx, req, o)
	c.attachEmpresa(ctx, req)

	return req, nil
}

// attachAuth adds the bearer header from the explicit override or the
// persisted token, when one exists.
func (c *Client) attachAuth(ctx context.Context, req *http.Request, o *requestOptions) {
	token := o.token
	if token == "" {
		stored, err := c.store.Get(ctx, ports.KeyAuthToken)
		if err != nil {
			return
		}
		token = stored
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// attachEmpresa adds the tenant header from the persisted selection, when one
// exists and parses.
func (c *Client) attachEmpresa(ctx context.Context, req *http.Request) {
	stored, err := c.store.Get(ctx, ports.KeySelectedEmpresa)
	if err != nil {
		return
	}
	var selected struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal([]byte(stored), &selected); err != nil {
		c.log.Debug().Err(err).Msg("persisted empresa selection is not valid JSON")
		return
	}
	if selected.ID != 0 {
		req.Header.Set("X-Empresa-ID", strconv.Itoa(selected.ID))
	}
}

// forceTeardown clears the persisted session and tenant keys, notifies the
// in-memory stores, and navigates to the login boundary unless the current
// view already is the login view.
func (c *Client) forceTeardown(ctx context.Context) {
	for _, key := range []string{ports.KeyAuthToken, ports.KeyAuthUser, ports.KeySelectedEmpresa} {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("failed to clear persisted key on teardown")
		}
	}
	TeardownsTotal.Inc()
	c.log.Info().Msg("session rejected by backend, local state cleared")

	if c.onAuthReject != nil {
		c.onAuthReject()
	}
	if c.nav != nil && c.nav.CurrentPath() != ports.LoginPath {
		c.nav.Navigate(ports.LoginPath)
	}
}

// decodeSuccess unmarshals a 2xx body into out and rejects bodies whose
// envelope says the operation failed.
func decodeSuccess(raw []byte, out any) error {
	if len(raw) > 0 {
		var env struct {
			Success *bool  `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil && !*env.Success {
			return envelopeError(env.Message)
		}
	}

	switch target := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*target = raw
		return nil
	default:
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return unknownError(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
