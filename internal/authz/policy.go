// Package authz decides whether a resolved principal may use the admin
// surface. Two signals only: a role claim, then an operator allow-list.
package authz

import (
	"os"
	"strings"

	"github.com/freshstart/storefront/internal/identity"
)

// AdminRole is the role claim value that grants admin access.
const AdminRole = "admin"

// allowListVar names the environment variable holding the comma-separated
// admin email allow-list. It is read on every check so operators can
// extend access without a restart.
const allowListVar = "ADMIN_EMAILS"

// IsAdmin reports whether the principal may reach protected operations.
// First match wins: app-level role claim, user-level role claim, then
// case-insensitive allow-list membership.
func IsAdmin(principal *identity.Principal) bool {
	if principal == nil {
		return false
	}

	if roleClaim(principal.AppClaims) == AdminRole {
		return true
	}
	if roleClaim(principal.UserClaims) == AdminRole {
		return true
	}

	email := strings.ToLower(strings.TrimSpace(principal.Email))
	if email == "" {
		return false
	}
	for _, allowed := range allowList() {
		if allowed == email {
			return true
		}
	}
	return false
}

func roleClaim(claims map[string]any) string {
	if claims == nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func allowList() []string {
	values := strings.Split(os.Getenv(allowListVar), ",")
	emails := values[:0]
	for _, value := range values {
		if email := strings.ToLower(strings.TrimSpace(value)); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
