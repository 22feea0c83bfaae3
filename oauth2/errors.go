package oauth2

import "errors"

var (
	ErrUnknownGrantType = errors.New("unknown grant type")
	ErrUnknownTokenType = errors.New("unknown token type")
)

// ErrorResponse is the error payload returned by the Gatekeeper token
// endpoint (RFC 6749 section 5.2).
type ErrorResponse struct {
	// Code is the machine-readable error identifier.
	// Example: "invalid_grant"
	Code string `json:"error"`

	// Description is the optional human-readable detail.
	Description string `json:"error_description,omitempty"`
}
