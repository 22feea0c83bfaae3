package token

import "time"

// UserToken is the persisted extension of a bearer token. Username acts
// as the lookup key; at most one UserToken exists in a store at a time
// for the single-user session.
type UserToken struct {
	Username     string    `json:"username"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiration   time.Time `json:"expiration,omitzero"`
}

// UserTokenFromBearer binds a bearer token to the username it was issued
// for, producing the persistable form.
func UserTokenFromBearer(username string, b *Bearer) *UserToken {
	return &UserToken{
		Username:     username,
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		Expiration:   b.Expiration,
	}
}

// Bearer returns the in-memory bearer form of the persisted token.
func (t *UserToken) Bearer() *Bearer {
	return &Bearer{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiration:   t.Expiration,
	}
}

// CanRefresh reports whether the token carries a refresh token.
func (t *UserToken) CanRefresh() bool {
	return t.RefreshToken != ""
}

// Equal compares two user tokens by (username, refresh_token). Tokens
// with mismatched refresh-token presence are never equal.
func (t *UserToken) Equal(other *UserToken) bool {
	if other == nil {
		return false
	}
	if t.Username != other.Username {
		return false
	}
	if t.CanRefresh() != other.CanRefresh() {
		return false
	}
	return t.RefreshToken == other.RefreshToken
}
