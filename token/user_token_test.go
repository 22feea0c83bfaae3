package token_test

import (
	"testing"

	"github.com/onehilltech/gatekeeper-go/token"
	"github.com/stretchr/testify/require"
)

func TestUserTokenFromBearer(t *testing.T) {
	b := &token.Bearer{AccessToken: "A", RefreshToken: "R"}
	ut := token.UserTokenFromBearer("alice", b)

	require.Equal(t, "alice", ut.Username)
	require.Equal(t, "A", ut.AccessToken)
	require.Equal(t, "R", ut.RefreshToken)
	require.True(t, ut.CanRefresh())
	require.Equal(t, b, ut.Bearer())
}

func TestUserTokenCanRefresh(t *testing.T) {
	withRefresh := token.UserTokenFromBearer("alice", &token.Bearer{AccessToken: "A", RefreshToken: "R"})
	require.True(t, withRefresh.CanRefresh())

	withoutRefresh := token.UserTokenFromBearer("alice", &token.Bearer{AccessToken: "A"})
	require.False(t, withoutRefresh.CanRefresh())
}

func TestUserTokenEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *token.UserToken
		equal bool
	}{
		{
			name:  "same username and refresh token",
			a:     &token.UserToken{Username: "alice", AccessToken: "A1", RefreshToken: "R"},
			b:     &token.UserToken{Username: "alice", AccessToken: "A2", RefreshToken: "R"},
			equal: true,
		},
		{
			name:  "both without refresh token",
			a:     &token.UserToken{Username: "alice", AccessToken: "A1"},
			b:     &token.UserToken{Username: "alice", AccessToken: "A2"},
			equal: true,
		},
		{
			name:  "different username",
			a:     &token.UserToken{Username: "alice", RefreshToken: "R"},
			b:     &token.UserToken{Username: "bob", RefreshToken: "R"},
			equal: false,
		},
		{
			name:  "different refresh token",
			a:     &token.UserToken{Username: "alice", RefreshToken: "R1"},
			b:     &token.UserToken{Username: "alice", RefreshToken: "R2"},
			equal: false,
		},
		{
			name:  "mismatched refresh token presence",
			a:     &token.UserToken{Username: "alice", RefreshToken: "R"},
			b:     &token.UserToken{Username: "alice"},
			equal: false,
		},
		{
			name:  "nil other",
			a:     &token.UserToken{Username: "alice"},
			b:     nil,
			equal: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.equal, tc.a.Equal(tc.b))
			if tc.b != nil {
				require.Equal(t, tc.equal, tc.b.Equal(tc.a))
			}
		})
	}
}
