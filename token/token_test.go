package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onehilltech/gatekeeper-go/oauth2"
	"github.com/onehilltech/gatekeeper-go/token"
	"github.com/stretchr/testify/require"
)

// bearerCollector records the bearer variant it visits.
type bearerCollector struct {
	bearer *token.Bearer
}

func (c *bearerCollector) VisitBearer(t *token.Bearer) error {
	c.bearer = t
	return nil
}

func TestDecodeBearer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token.NowFunc = func() time.Time { return now }
	defer func() { token.NowFunc = time.Now }()

	tok, err := token.Decode([]byte(`{"token_type":"Bearer","access_token":"A","refresh_token":"R","expires_in":900}`))
	require.NoError(t, err)

	var c bearerCollector
	require.NoError(t, tok.Accept(&c))
	require.NotNil(t, c.bearer)
	require.Equal(t, "A", c.bearer.AccessToken)
	require.Equal(t, "R", c.bearer.RefreshToken)
	require.True(t, c.bearer.CanRefresh())
	require.Equal(t, now.Add(900*time.Second), c.bearer.Expiration)
}

func TestDecodeBearerDefaultsTokenType(t *testing.T) {
	tok, err := token.Decode([]byte(`{"access_token":"A"}`))
	require.NoError(t, err)

	var c bearerCollector
	require.NoError(t, tok.Accept(&c))
	require.Equal(t, "A", c.bearer.AccessToken)
	require.False(t, c.bearer.CanRefresh())
	require.False(t, c.bearer.HasExpiration())
}

func TestDecodeUnknownTokenType(t *testing.T) {
	_, err := token.Decode([]byte(`{"token_type":"mac","access_token":"A"}`))
	require.ErrorIs(t, err, oauth2.ErrUnknownTokenType)
}

func TestDecodeJWTExpirationFallback(t *testing.T) {
	exp := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)

	tok, err := token.Decode([]byte(`{"access_token":"` + raw + `"}`))
	require.NoError(t, err)

	var c bearerCollector
	require.NoError(t, tok.Accept(&c))
	require.True(t, c.bearer.HasExpiration())
	require.True(t, exp.Equal(c.bearer.Expiration))
}

func TestBearerIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token.NowFunc = func() time.Time { return now }
	defer func() { token.NowFunc = time.Now }()

	tests := []struct {
		name    string
		bearer  token.Bearer
		expired bool
	}{
		{"no expiration", token.Bearer{AccessToken: "A"}, false},
		{"future expiration", token.Bearer{AccessToken: "A", Expiration: now.Add(time.Hour)}, false},
		{"past expiration", token.Bearer{AccessToken: "A", Expiration: now.Add(-time.Hour)}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expired, tc.bearer.IsExpired())
		})
	}
}
