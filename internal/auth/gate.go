package auth

import "errors"

var (
	// ErrUnauthenticated means no identity is signed in.
	ErrUnauthenticated = errors.New("auth: not signed in")
	// ErrForbidden means the signed-in identity lacks a permission.
	ErrForbidden = errors.New("auth: permission denied")
)

// Gate answers authorization questions about the current session.
type Gate interface {
	IsAuthenticated() bool
	HasPermission(p Permission) bool
}

// Require returns nil when g is signed in and holds p, ErrUnauthenticated
// when nobody is signed in, and ErrForbidden otherwise.
func Require(g Gate, p Permission) error {
	if !g.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !g.HasPermission(p) {
		return ErrForbidden
	}
	return nil
}
