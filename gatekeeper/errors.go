package gatekeeper

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState tags caller-contract violations. These failures are
	// fatal to the call and not retryable; branch on them with errors.Is
	// to separate "my code is wrong" from "the network or server is
	// wrong".
	ErrIllegalState = errors.New("illegal state")

	// ErrNoUserToken is reported when an operation requiring a user token
	// is invoked without one.
	ErrNoUserToken = errors.New("no user token")

	// ErrCannotRefresh is reported when the current user token carries no
	// refresh token.
	ErrCannotRefresh = errors.New("current token cannot be refreshed")
)

// IllegalStateError is a programming-contract violation, distinct from
// transport and protocol failures.
type IllegalStateError struct {
	// Op is the operation whose precondition was violated.
	Op string

	// Reason identifies the violated precondition.
	Reason error
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("gatekeeper: %s: %s: %s", e.Op, ErrIllegalState, e.Reason)
}

func (e *IllegalStateError) Unwrap() []error {
	return []error{ErrIllegalState, e.Reason}
}

// ProtocolError is a well-formed error returned by the Gatekeeper
// service, propagated verbatim as the failure payload.
type ProtocolError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the machine-readable OAuth2 error identifier, e.g.
	// "invalid_grant".
	Code string

	// Description is the optional human-readable detail.
	Description string
}

func (e *ProtocolError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("gatekeeper: %s (%d): %s", e.Code, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("gatekeeper: %s (%d)", e.Code, e.StatusCode)
}

// IsInvalidGrant reports whether the server rejected the grant itself,
// e.g. bad credentials or a revoked refresh token.
func (e *ProtocolError) IsInvalidGrant() bool {
	return e.Code == "invalid_grant"
}

// IsProtocolError reports whether err is a server-reported protocol
// failure.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
