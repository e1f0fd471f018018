package middlewares

import "errors"

// Terminal request outcomes. Handlers and middlewares return these and the
// app-level ErrorHandler maps each one to its JSON or HTML contract in a
// single exhaustive switch at the HTTP boundary.
var (
	ErrSessionExpired  = errors.New("session expired")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrAccessDenied    = errors.New("access denied")
)
