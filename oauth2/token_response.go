package oauth2

// TokenResponse is the response body of the Gatekeeper token endpoint.
// This is the standard OAuth2 token response format as defined in RFC 6749,
// returned from POST /oauth2/token for all grant types.
type TokenResponse struct {
	// AccessToken is the opaque credential used to access protected
	// resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// TokenType indicates how to use the access token. Gatekeeper issues
	// bearer tokens; an empty value is treated as "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Only user tokens carry one; a token without it cannot be refreshed.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Note: This is a hint - some deployments omit it and rely on the
	// exp claim inside a JWT access token instead.
	ExpiresIn int `json:"expires_in,omitempty"`
}
