package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/freshstart/storefront/internal/apperr"
)

// LocalProvider is the fallback identity backend for deployments without
// a remote provider: one operator-configured admin credential checked
// with bcrypt, and random bearer tokens held in process memory. Tokens do
// not survive a restart, which is acceptable for the fallback path.
type LocalProvider struct {
	email        string
	passwordHash string
	ttl          time.Duration
	now          func() time.Time

	mu     sync.Mutex
	tokens map[string]localSession
}

type localSession struct {
	email     string
	expiresAt time.Time
}

// NewLocalProvider builds a provider around a single bcrypt credential.
func NewLocalProvider(email, passwordHash string, ttl time.Duration) *LocalProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LocalProvider{
		email:        email,
		passwordHash: passwordHash,
		ttl:          ttl,
		now:          time.Now,
		tokens:       make(map[string]localSession),
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// PasswordLogin checks the configured credential and issues a token.
func (p *LocalProvider) PasswordLogin(ctx context.Context, email, password string) (*Session, error) {
	if !strings.EqualFold(email, p.email) ||
		bcrypt.CompareHashAndPassword([]byte(p.passwordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials", nil)
	}

	token, err := newToken()
	if err != nil {
		return nil, apperr.Internal("token generation failed", err)
	}

	now := p.now()
	p.mu.Lock()
	p.pruneLocked(now)
	p.tokens[token] = localSession{email: p.email, expiresAt: now.Add(p.ttl)}
	p.mu.Unlock()

	return &Session{Token: token, ExpiresIn: int(p.ttl.Seconds())}, nil
}

// Resolve looks a token up in the in-memory table.
func (p *LocalProvider) Resolve(ctx context.Context, token string) (*Principal, error) {
	now := p.now()

	p.mu.Lock()
	p.pruneLocked(now)
	session, ok := p.tokens[token]
	p.mu.Unlock()

	if !ok || !session.expiresAt.After(now) {
		return nil, apperr.Unauthorized("invalid or expired token", nil)
	}

	return &Principal{
		ID:         "local-admin",
		Email:      session.email,
		UserClaims: map[string]any{"role": "admin"},
	}, nil
}

func (p *LocalProvider) pruneLocked(now time.Time) {
	for token, session := range p.tokens {
		if !session.expiresAt.After(now) {
			delete(p.tokens, token)
		}
	}
}
