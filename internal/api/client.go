// Package api is the gateway to the remote admin API: one client that attaches
// the bearer credential to every call and exposes login, identity fetch and
// the CRUD operations of each resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sipico/staff-console/internal/logging"
)

const (
	// DefaultBaseURL is the local development address of the remote API.
	DefaultBaseURL = "http://localhost:8000"

	// RequestIDHeader carries a fresh UUID on every outbound call.
	RequestIDHeader = "X-Request-ID"
)

// TokenSource supplies the current bearer credential. An empty string means
// no credential is attached.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// Client is an HTTP client for the remote admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Its transport replaces the
// default logging and metrics chain.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTokenSource sets where the bearer credential is read from on each call.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the logger used by the default transport.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new API client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: NewTransport(c.logger, nil)}
	}

	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type tokenOverrideKey struct{}

// WithToken returns a context whose calls carry token instead of the
// client's TokenSource. Session restore uses it to verify a stored
// credential before adopting it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenOverrideKey{}, token)
}

func (c *Client) token(ctx context.Context) string {
	if token, ok := ctx.Value(tokenOverrideKey{}).(string); ok {
		return token
	}
	if c.tokens != nil {
		return c.tokens.Token()
	}
	return ""
}

// Login exchanges credentials for a bearer token and the account identity.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", &LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("api: login response carried no token")
	}
	return &resp, nil
}

// Me fetches the identity behind the current credential.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Users returns the /users/ endpoint.
func (c *Client) Users() *Endpoint[User] { return NewEndpoint[User](c, "users") }

// Blogs returns the /blogs/ endpoint.
func (c *Client) Blogs() *Endpoint[Blog] { return NewEndpoint[Blog](c, "blogs") }

// Portfolios returns the /portfolios/ endpoint.
func (c *Client) Portfolios() *Endpoint[Portfolio] { return NewEndpoint[Portfolio](c, "portfolios") }

// Testimonials returns the /testimonials/ endpoint.
func (c *Client) Testimonials() *Endpoint[Testimonial] {
	return NewEndpoint[Testimonial](c, "testimonials")
}

// do issues one request. in is JSON-encoded when non-nil; out receives the
// decoded 2xx body when non-nil and the body is not empty.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() {
		//nolint:errcheck
		resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
