package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/freshstart/storefront/internal/apperr"
	"github.com/freshstart/storefront/internal/authz"
	"github.com/freshstart/storefront/internal/httpx"
	"github.com/freshstart/storefront/internal/identity"
)

const principalKey = "principal"

// isProtected reports whether a request needs an authenticated admin.
// Mutations on the menu API, everything under the uploads API, and the
// admin form pages are protected; all other traffic passes untouched.
func isProtected(method, path string) bool {
	switch {
	case strings.HasPrefix(path, "/api/menu-items"):
		return method != http.MethodGet
	case strings.HasPrefix(path, "/api/uploads"):
		return true
	case path == "/ekle" || strings.HasPrefix(path, "/ekle/"):
		return true
	}
	return false
}

// isBrowserPath reports whether a denial should redirect to the login
// page instead of returning JSON.
func isBrowserPath(path string) bool {
	return path == "/ekle" || strings.HasPrefix(path, "/ekle/")
}

// Gate authenticates and authorizes protected requests. A nil provider
// means no identity backend could be configured; protected requests then
// fail as backend-unavailable rather than unauthorized.
func Gate(provider identity.Provider) httpx.Middleware {
	return func(next httpx.Handler) httpx.Handler {
		return func(ctx *httpx.Context) error {
			method := ctx.Request.Method
			path := ctx.Request.URL.Path
			if !isProtected(method, path) {
				return next(ctx)
			}

			deny := func(message string) error {
				if isBrowserPath(path) {
					target := "/admin/login?next=" + url.QueryEscape(ctx.Request.URL.RequestURI())
					return ctx.Redirect(http.StatusSeeOther, target)
				}
				return apperr.Unauthorized(message, nil)
			}

			token := ctx.Cookie(SessionCookieName)
			if token == "" {
				return deny("authentication required")
			}
			if provider == nil {
				return apperr.Unavailable("auth backend unavailable", nil)
			}

			principal, err := provider.Resolve(ctx.Request.Context(), token)
			if err != nil {
				if appErr := apperr.As(err); appErr != nil && appErr.Code == apperr.CodeUnauthorized {
					return deny("invalid session")
				}
				return err
			}

			if !authz.IsAdmin(principal) {
				return apperr.Forbidden("admin access required", nil)
			}

			ctx.Set(principalKey, principal)
			return next(ctx)
		}
	}
}

// PrincipalFrom returns the authenticated principal the gate stored, or
// nil on unprotected routes.
func PrincipalFrom(ctx *httpx.Context) *identity.Principal {
	value, ok := ctx.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*identity.Principal)
	return principal
}
