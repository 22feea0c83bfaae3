package token

import (
	"time"

	"github.com/onehilltech/gatekeeper-go/oauth2"
)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

// Bearer is an opaque access credential presented in an authorization
// header. A zero Expiration means the expiration is unknown.
type Bearer struct {
	AccessToken  string
	RefreshToken string
	Expiration   time.Time
}

var _ Token = (*Bearer)(nil)

// Accept implements Token.
func (b *Bearer) Accept(v Visitor) error {
	return v.VisitBearer(b)
}

// CanRefresh reports whether the token carries a refresh token. A token
// without one cannot be refreshed.
func (b *Bearer) CanRefresh() bool {
	return b.RefreshToken != ""
}

// HasExpiration reports whether the token's expiration is known.
func (b *Bearer) HasExpiration() bool {
	return !b.Expiration.IsZero()
}

// IsExpired reports whether the token has expired. A token with an
// unknown expiration is never considered expired locally; the server
// remains the authority.
func (b *Bearer) IsExpired() bool {
	return b.HasExpiration() && NowFunc().After(b.Expiration)
}

// bearerFromResponse builds a Bearer from the wire response. The
// expiration comes from expires_in when present, otherwise from the exp
// claim of a JWT access token when there is one.
func bearerFromResponse(res *oauth2.TokenResponse) *Bearer {
	b := &Bearer{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}

	if res.ExpiresIn > 0 {
		b.Expiration = NowFunc().Add(time.Duration(res.ExpiresIn) * time.Second)
	} else if exp, ok := expirationFromJWT(res.AccessToken); ok {
		b.Expiration = exp
	}

	return b
}
