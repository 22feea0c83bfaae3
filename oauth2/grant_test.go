package oauth2_test

import (
	"encoding/json"
	"testing"

	"github.com/onehilltech/gatekeeper-go/oauth2"
	"github.com/stretchr/testify/require"
)

func TestMarshalGrantIncludesDiscriminator(t *testing.T) {
	tests := []struct {
		name      string
		grant     oauth2.Grant
		grantType string
	}{
		{
			name:      "client credentials",
			grant:     oauth2.ClientCredentials{ClientID: "c1", ClientSecret: "s1"},
			grantType: "client_credentials",
		},
		{
			name:      "password",
			grant:     oauth2.Password{ClientID: "c1", Username: "alice", Password: "pw"},
			grantType: "password",
		},
		{
			name:      "refresh token",
			grant:     oauth2.RefreshToken{ClientID: "c1", RefreshToken: "r1"},
			grantType: "refresh_token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := oauth2.MarshalGrant(tc.grant)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			require.Equal(t, tc.grantType, fields["grant_type"])
			require.Equal(t, "c1", fields["client_id"])
		})
	}
}

func TestGrantRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		grant oauth2.Grant
	}{
		{"client credentials", oauth2.ClientCredentials{ClientID: "c1", ClientSecret: "s1"}},
		{"password", oauth2.Password{ClientID: "c1", Username: "alice", Password: "pw"}},
		{"refresh token", oauth2.RefreshToken{ClientID: "c1", RefreshToken: "r1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := oauth2.MarshalGrant(tc.grant)
			require.NoError(t, err)

			decoded, err := oauth2.UnmarshalGrant(data)
			require.NoError(t, err)
			require.Equal(t, tc.grant, decoded)
		})
	}
}

func TestUnmarshalGrantUnknownDiscriminator(t *testing.T) {
	_, err := oauth2.UnmarshalGrant([]byte(`{"grant_type":"authorization_code","client_id":"c1"}`))
	require.ErrorIs(t, err, oauth2.ErrUnknownGrantType)
}

func TestUnmarshalGrantMissingDiscriminator(t *testing.T) {
	_, err := oauth2.UnmarshalGrant([]byte(`{"client_id":"c1","client_secret":"s1"}`))
	require.ErrorIs(t, err, oauth2.ErrUnknownGrantType)
}
