// Package identity wraps the identity provider: it exchanges credentials
// for a session token and resolves bearer tokens to principals. Tokens
// are opaque; nothing in this service decodes them.
package identity

import "context"

// Principal is the authenticated identity resolved from a session token.
type Principal struct {
	ID         string
	Email      string
	AppClaims  map[string]any
	UserClaims map[string]any
}

// Session is an issued bearer token with its lifetime in seconds.
type Session struct {
	Token     string
	ExpiresIn int
}

// Provider issues and resolves session tokens.
type Provider interface {
	// PasswordLogin exchanges credentials for a session. Bad credentials
	// yield an unauthorized error; an unreachable provider yields a
	// backend-unavailable error.
	PasswordLogin(ctx context.Context, email, password string) (*Session, error)
	// Resolve returns the principal for a token. Unknown and expired
	// tokens are indistinguishable: both are unauthorized.
	Resolve(ctx context.Context, token string) (*Principal, error)
}
