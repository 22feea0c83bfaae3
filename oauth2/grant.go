package oauth2

import (
	"encoding/json"
	"fmt"
)

// GrantType is the OAuth 2.0 grant type discriminator carried in the
// grant_type field of every token request. The Gatekeeper service rejects
// requests whose discriminator is not one of the values below.
type GrantType string

const (
	// PasswordGrantType exchanges a user's credentials for a user token.
	// Token request includes: client_id, username, password
	PasswordGrantType GrantType = "password"

	// ClientCredentialsGrantType authenticates the application itself.
	// Token request includes: client_id, client_secret
	ClientCredentialsGrantType GrantType = "client_credentials"

	// RefreshTokenGrantType exchanges a refresh token for a new user token.
	// Token request includes: client_id, refresh_token
	RefreshTokenGrantType GrantType = "refresh_token"
)

// Grant describes how a token should be obtained. It is a request-only
// value: grants are serialized to the token endpoint and never persisted.
type Grant interface {
	// GrantType returns the wire discriminator for this variant.
	GrantType() GrantType
}

// ClientCredentials is the client_credentials grant variant.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (ClientCredentials) GrantType() GrantType { return ClientCredentialsGrantType }

// Password is the password grant variant.
type Password struct {
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (Password) GrantType() GrantType { return PasswordGrantType }

// RefreshToken is the refresh_token grant variant.
type RefreshToken struct {
	ClientID     string `json:"client_id"`
	RefreshToken string `json:"refresh_token"`
}

func (RefreshToken) GrantType() GrantType { return RefreshTokenGrantType }

// MarshalGrant serializes a grant with its grant_type discriminator. The
// discriminator is mandated by the Gatekeeper wire protocol.
func MarshalGrant(g Grant) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("oauth2.MarshalGrant: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("oauth2.MarshalGrant: %w", err)
	}

	discriminator, err := json.Marshal(g.GrantType())
	if err != nil {
		return nil, fmt.Errorf("oauth2.MarshalGrant: %w", err)
	}
	fields["grant_type"] = discriminator

	return json.Marshal(fields)
}

// UnmarshalGrant deserializes a grant, dispatching on the grant_type
// discriminator. An unrecognized discriminator is a deserialization
// failure, never a silently-ignored field.
func UnmarshalGrant(data []byte) (Grant, error) {
	var probe struct {
		GrantType GrantType `json:"grant_type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("oauth2.UnmarshalGrant: %w", err)
	}

	switch probe.GrantType {
	case ClientCredentialsGrantType:
		var g ClientCredentials
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("oauth2.UnmarshalGrant: %w", err)
		}
		return g, nil

	case PasswordGrantType:
		var g Password
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("oauth2.UnmarshalGrant: %w", err)
		}
		return g, nil

	case RefreshTokenGrantType:
		var g RefreshToken
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("oauth2.UnmarshalGrant: %w", err)
		}
		return g, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownGrantType, probe.GrantType)
}
