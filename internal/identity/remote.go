package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/freshstart/storefront/internal/apperr"
)

// RemoteProvider talks to a GoTrue-style auth endpoint using the
// client-safe anonymous key. Outbound calls are not retried; failures
// surface immediately as typed errors.
type RemoteProvider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewRemoteProvider builds a provider for the given project URL.
func NewRemoteProvider(baseURL, anonKey string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type errorResponse struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text(fallback string) string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// PasswordLogin exchanges email/password for a bearer token.
func (p *RemoteProvider) PasswordLogin(ctx context.Context, email, password string) (*Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	url := p.baseURL + "/auth/v1/token?grant_type=password"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Internal("auth request build failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperr.Unavailable("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Unavailable("identity provider response unreadable", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var token tokenResponse
		if err := json.Unmarshal(raw, &token); err != nil || token.AccessToken == "" {
			return nil, apperr.Unavailable("identity provider response malformed", err)
		}
		return &Session{Token: token.AccessToken, ExpiresIn: token.ExpiresIn}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var provErr errorResponse
		_ = json.Unmarshal(raw, &provErr)
		return nil, apperr.Unauthorized(provErr.text("login failed"), nil)
	default:
		return nil, apperr.Unavailable(fmt.Sprintf("identity provider error (%d)", resp.StatusCode), nil)
	}
}

// Resolve asks the provider for the user behind a token.
func (p *RemoteProvider) Resolve(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, apperr.Internal("auth request build failed", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperr.Unavailable("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Unavailable("identity provider response unreadable", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var user userResponse
		if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
			return nil, apperr.Unavailable("identity provider response malformed", err)
		}
		return &Principal{
			ID:         user.ID,
			Email:      user.Email,
			AppClaims:  user.AppMetadata,
			UserClaims: user.UserMetadata,
		}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, apperr.Unauthorized("invalid or expired token", nil)
	default:
		return nil, apperr.Unavailable(fmt.Sprintf("identity provider error (%d)", resp.StatusCode), nil)
	}
}
