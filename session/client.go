// Package session binds a Gatekeeper client to at most one
// authenticated end-user, persisting the user token across restarts.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/onehilltech/gatekeeper-go/gatekeeper"
	"github.com/onehilltech/gatekeeper-go/store"
	"github.com/onehilltech/gatekeeper-go/token"
)

// Client is the single-user session: a Gatekeeper client plus the
// locally cached user token and "who am I" account snapshot. It owns
// the token's storage lifecycle through its TokenStore.
//
// A session is a single logical owner of its mutable state; concurrent
// SignIn and Logout calls on the same session must be serialized by the
// caller.
type Client struct {
	gk    *gatekeeper.Client
	store store.TokenStore
	log   zerolog.Logger

	userToken *token.UserToken
	whoami    *gatekeeper.Account
}

// Option configures a session Client.
type Option func(*options)

type options struct {
	log    zerolog.Logger
	gkOpts []gatekeeper.Option
}

// WithLogger sets the session's logger. It is also passed to the
// embedded Gatekeeper client.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
		o.gkOpts = append(o.gkOpts, gatekeeper.WithLogger(log))
	}
}

// WithGatekeeperOptions forwards options to the embedded Gatekeeper
// client.
func WithGatekeeperOptions(opts ...gatekeeper.Option) Option {
	return func(o *options) {
		o.gkOpts = append(o.gkOpts, opts...)
	}
}

// New initializes the session: it authenticates the application, then
// loads any previously persisted user token. A persisted token puts the
// session directly in the logged-in state without a network round-trip;
// the cached token is trusted until an authenticated call proves it
// stale, at which point refreshing is the caller's responsibility.
func New(ctx context.Context, cfg gatekeeper.Config, ts store.TokenStore, opts ...Option) (*Client, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	gk, err := gatekeeper.New(ctx, cfg, o.gkOpts...)
	if err != nil {
		return nil, fmt.Errorf("session: initialize: %w", err)
	}

	ut, err := ts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: load persisted token: %w", err)
	}

	s := &Client{gk: gk, store: ts, log: o.log}
	if ut != nil {
		s.userToken = ut
		gk.SetUserToken(ut.Bearer())
		s.log.Debug().Str("username", ut.Username).Msg("session restored")
	}
	return s, nil
}

// Gatekeeper returns the embedded Gatekeeper client.
func (s *Client) Gatekeeper() *gatekeeper.Client { return s.gk }

// IsLoggedIn reports whether a user token is currently held.
func (s *Client) IsLoggedIn() bool { return s.userToken != nil }

// UserToken returns the session's current user token, or nil when
// logged out.
func (s *Client) UserToken() *token.UserToken { return s.userToken }

// SignIn completes a login: it exchanges the user's credentials for a
// token and persists it. A failed exchange or a failed persist leaves
// the session logged out.
func (s *Client) SignIn(ctx context.Context, username, password string) (*token.UserToken, error) {
	b, err := s.gk.GetUserToken(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("session: sign in: %w", err)
	}

	ut := token.UserTokenFromBearer(username, b)
	if err := s.store.Save(ctx, ut); err != nil {
		// The remote grant succeeded but the session cannot honor its
		// persistence contract; roll the login back so the state stays
		// consistent with the store.
		s.gk.SetUserToken(nil)
		return nil, fmt.Errorf("session: persist token: %w", err)
	}

	s.userToken = ut
	s.log.Debug().Str("username", username).Msg("signed in")
	return ut, nil
}

// RefreshToken exchanges the session's refresh token for a new user
// token and re-persists it. The refresh itself is never triggered
// automatically; callers invoke it when an authenticated call reports
// the token stale.
func (s *Client) RefreshToken(ctx context.Context) (*token.UserToken, error) {
	if s.userToken == nil {
		return nil, &gatekeeper.IllegalStateError{Op: "session.RefreshToken", Reason: ErrNotLoggedIn}
	}

	b, err := s.gk.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: refresh token: %w", err)
	}

	// The remote service has rotated the token, so the new one is kept
	// in memory even if persisting it fails.
	ut := token.UserTokenFromBearer(s.userToken.Username, b)
	s.userToken = ut
	if err := s.store.Save(ctx, ut); err != nil {
		return nil, fmt.Errorf("session: persist refreshed token: %w", err)
	}
	return ut, nil
}

// Logout revokes the user token remotely and, only on confirmed
// success, deletes the persisted token and clears the in-memory token
// and account snapshot. A failed remote logout leaves the session fully
// logged in. Logging out while logged out is an illegal-state failure.
func (s *Client) Logout(ctx context.Context) (bool, error) {
	if s.userToken == nil {
		return false, &gatekeeper.IllegalStateError{Op: "session.Logout", Reason: ErrNotLoggedIn}
	}

	ok, err := s.gk.Logout(ctx)
	if err != nil {
		return false, fmt.Errorf("session: logout: %w", err)
	}
	if !ok {
		return false, nil
	}

	// Remote logout confirmed: the token is revoked server-side, so the
	// local state is cleared even if the store delete fails below.
	username := s.userToken.Username
	s.userToken = nil
	s.whoami = nil

	if err := s.store.Delete(ctx, username); err != nil {
		return false, fmt.Errorf("session: delete persisted token: %w", err)
	}

	s.log.Debug().Str("username", username).Msg("logged out")
	return true, nil
}

// GetMyAccount returns the account snapshot for the current user,
// memoized after the first successful fetch. The cache is invalidated
// only by logout.
func (s *Client) GetMyAccount(ctx context.Context) (*gatekeeper.Account, error) {
	if s.whoami != nil {
		return s.whoami, nil
	}
	if s.userToken == nil {
		return nil, &gatekeeper.IllegalStateError{Op: "session.GetMyAccount", Reason: ErrNotLoggedIn}
	}

	account, err := s.gk.WhoAmI(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: get account: %w", err)
	}

	s.whoami = account
	return account, nil
}

// GetAccountProfile fetches the profile for the current user's account.
func (s *Client) GetAccountProfile(ctx context.Context) (*gatekeeper.AccountProfile, error) {
	if s.userToken == nil {
		return nil, &gatekeeper.IllegalStateError{Op: "session.GetAccountProfile", Reason: ErrNotLoggedIn}
	}
	return s.gk.GetAccountProfile(ctx)
}

// NewAuthenticatedRequest builds a request carrying the session's user
// token.
func (s *Client) NewAuthenticatedRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if s.userToken == nil {
		return nil, &gatekeeper.IllegalStateError{Op: "session.NewAuthenticatedRequest", Reason: ErrNotLoggedIn}
	}
	return s.gk.NewUserRequest(ctx, method, path, body)
}
