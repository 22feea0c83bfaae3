package session

import "errors"

var (
	// ErrNotLoggedIn is reported when a session operation that needs a
	// user token is invoked while logged out.
	ErrNotLoggedIn = errors.New("not logged in")
)
