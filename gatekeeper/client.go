// Package gatekeeper implements the client half of the Gatekeeper
// OAuth2 protocol: it obtains and holds bearer tokens for the
// application (client credentials) and an optional user (password or
// refresh grants), and attaches them to outgoing requests.
package gatekeeper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/onehilltech/gatekeeper-go/oauth2"
	"github.com/onehilltech/gatekeeper-go/token"
)

const (
	tokenPath  = "/oauth2/token"
	logoutPath = "/oauth2/logout"

	contentTypeJSON = "application/json; charset=utf-8"
)

// Client talks to a Gatekeeper service. Its client token is obtained
// once at construction and never reassigned; the user token transitions
// absent -> present on a successful user grant and present -> absent on
// a confirmed logout.
//
// A Client is safe for concurrent outgoing requests. Higher-level
// session operations (concurrent login and logout on the same logical
// session) are not coordinated here and must be serialized by the
// caller.
type Client struct {
	baseURI  string
	clientID string
	exec     Executor
	log      zerolog.Logger

	// clientToken is write-once: set at construction, read-only after.
	clientToken *token.Bearer

	mu        sync.RWMutex
	userToken *token.Bearer
}

// Option configures a Client.
type Option func(*Client)

// WithExecutor replaces the default HTTP executor.
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		c.exec = exec
	}
}

// WithLogger sets the client's logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New initializes a client by exchanging the configured client
// credentials for a client token. On any failure no client is produced;
// the caller retries initialization from scratch.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURI:  cfg.BaseURI,
		clientID: cfg.ClientID,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = NewHTTPExecutor(WithExecutorLogger(c.log))
	}

	clientToken, err := c.exchange(ctx, oauth2.ClientCredentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("gatekeeper: initialize: %w", err)
	}

	c.clientToken = clientToken
	c.log.Debug().Str("client_id", c.clientID).Msg("client authenticated")
	return c, nil
}

// BaseURI returns the base URI of the Gatekeeper service.
func (c *Client) BaseURI() string { return c.baseURI }

// ClientID returns the client id.
func (c *Client) ClientID() string { return c.clientID }

// ClientToken returns the application's own token.
func (c *Client) ClientToken() *token.Bearer { return c.clientToken }

// UserToken returns the current user token, or nil when no user is
// authenticated.
func (c *Client) UserToken() *token.Bearer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userToken
}

// IsLoggedIn reports whether a user token is currently held.
func (c *Client) IsLoggedIn() bool {
	return c.UserToken() != nil
}

// SetUserToken installs a previously persisted user token, e.g. one
// loaded from a token store at session start. A nil token clears the
// user state.
func (c *Client) SetUserToken(t *token.Bearer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userToken = t
}

// GetUserToken exchanges a user's credentials for a user token via the
// password grant. On success the token is stored before the caller is
// notified; the result of the most recently completed exchange wins.
func (c *Client) GetUserToken(ctx context.Context, username, password string) (*token.Bearer, error) {
	b, err := c.exchange(ctx, oauth2.Password{
		ClientID: c.clientID,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.userToken = b
	c.mu.Unlock()

	c.log.Debug().Str("username", username).Msg("user authenticated")
	return b, nil
}

// RefreshToken exchanges the current user token's refresh token for a
// new user token. Calling it without a refreshable user token is a
// contract violation, reported as an illegal-state failure without any
// network call. A failed exchange leaves the prior token intact.
func (c *Client) RefreshToken(ctx context.Context) (*token.Bearer, error) {
	c.mu.RLock()
	current := c.userToken
	c.mu.RUnlock()

	if current == nil {
		return nil, &IllegalStateError{Op: "RefreshToken", Reason: ErrNoUserToken}
	}
	if !current.CanRefresh() {
		return nil, &IllegalStateError{Op: "RefreshToken", Reason: ErrCannotRefresh}
	}

	b, err := c.exchange(ctx, oauth2.RefreshToken{
		ClientID:     c.clientID,
		RefreshToken: current.RefreshToken,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.userToken = b
	c.mu.Unlock()

	c.log.Debug().Msg("user token refreshed")
	return b, nil
}

// Logout revokes the current user token remotely. The token is cleared
// only when the server explicitly confirms the logout; on a transport
// error or a falsy response it is retained.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	c.mu.RLock()
	current := c.userToken
	c.mu.RUnlock()

	if current == nil {
		return false, &IllegalStateError{Op: "Logout", Reason: ErrNoUserToken}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURI+logoutPath, nil)
	if err != nil {
		return false, fmt.Errorf("gatekeeper: logout: %w", err)
	}
	authorize(req, current)

	var ok bool
	if err := c.doJSON(req, &ok); err != nil {
		return false, fmt.Errorf("gatekeeper: logout: %w", err)
	}
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	c.userToken = nil
	c.mu.Unlock()

	c.log.Debug().Msg("user logged out")
	return true, nil
}

// CreateAccount creates an account on the Gatekeeper service using the
// client token. It is a pure remote side effect: no session state
// changes, and a false result is a denial, not an error.
func (c *Client) CreateAccount(ctx context.Context, username, password, email string) (bool, error) {
	payload := struct {
		ClientID string `json:"client_id"`
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}{c.clientID, username, password, email}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("gatekeeper: create account: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURI+"/accounts", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("gatekeeper: create account: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	authorize(req, c.clientToken)

	var created bool
	if err := c.doJSON(req, &created); err != nil {
		return false, fmt.Errorf("gatekeeper: create account: %w", err)
	}
	return created, nil
}

// NewUserRequest builds a request carrying the current user token.
// Construction never performs I/O; a missing token simply produces an
// unauthenticated request whose failure surfaces at execution.
func (c *Client) NewUserRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURI+path, body)
	if err != nil {
		return nil, err
	}
	authorize(req, c.UserToken())
	return req, nil
}

// NewClientRequest builds a request carrying the client token.
func (c *Client) NewClientRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURI+path, body)
	if err != nil {
		return nil, err
	}
	authorize(req, c.clientToken)
	return req, nil
}

// Execute runs a request on the client's executor.
func (c *Client) Execute(req *http.Request) (*http.Response, error) {
	return c.exec.Do(req)
}

// exchange is the one token exchange primitive: every grant variant
// funnels through it, so all three flows share identical error handling
// and response parsing.
func (c *Client) exchange(ctx context.Context, g oauth2.Grant) (*token.Bearer, error) {
	body, err := oauth2.MarshalGrant(g)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURI+tokenPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	tok, err := token.Decode(data)
	if err != nil {
		return nil, err
	}

	var collector bearerCollector
	if err := tok.Accept(&collector); err != nil {
		return nil, err
	}
	return collector.bearer, nil
}

// do runs a request and returns the response body, mapping non-2xx
// responses to protocol errors.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.exec.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload oauth2.ErrorResponse
		if err := json.Unmarshal(data, &payload); err == nil && payload.Code != "" {
			return nil, &ProtocolError{
				StatusCode:  resp.StatusCode,
				Code:        payload.Code,
				Description: payload.Description,
			}
		}
		return nil, fmt.Errorf("request %s %s: unexpected status %s", req.Method, req.URL.Path, resp.Status)
	}

	return data, nil
}

// doJSON runs a request and decodes the response body into v.
func (c *Client) doJSON(req *http.Request, v any) error {
	data, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// authorize attaches a bearer token to the request. A nil token leaves
// the request unauthenticated.
func authorize(req *http.Request, t *token.Bearer) {
	if t != nil {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}
}

// bearerCollector is the token visitor used by exchange; it accepts
// only the bearer variant.
type bearerCollector struct {
	bearer *token.Bearer
}

func (b *bearerCollector) VisitBearer(t *token.Bearer) error {
	b.bearer = t
	return nil
}
