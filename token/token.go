package token

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/onehilltech/gatekeeper-go/oauth2"
)

// Token is the polymorphic result of a grant exchange. Concrete variants
// dispatch through a Visitor so that a new token kind forces every dispatch
// site to be revisited instead of silently coercing.
type Token interface {
	// Accept dispatches the concrete variant to the visitor.
	Accept(v Visitor) error
}

// Visitor receives the concrete variant of a Token. A visitor that does
// not handle a variant must return an error rather than ignore it.
type Visitor interface {
	VisitBearer(t *Bearer) error
}

// Decode deserializes a token endpoint response, dispatching on the
// token_type field. An unrecognized token type is a decode failure.
func Decode(data []byte) (Token, error) {
	var res oauth2.TokenResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("token.Decode: %w", err)
	}

	switch strings.ToLower(res.TokenType) {
	case "", "bearer":
		return bearerFromResponse(&res), nil
	}

	return nil, fmt.Errorf("%w %q", oauth2.ErrUnknownTokenType, res.TokenType)
}
