package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirationFromJWT extracts the exp claim from a JWT access token. The
// signature is deliberately not verified: the client is not the token's
// audience validator, it only needs the lifetime hint. Returns false for
// opaque (non-JWT) tokens and tokens without an exp claim.
func expirationFromJWT(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
