package authz

import (
	"testing"

	"github.com/freshstart/storefront/internal/identity"
)

func TestIsAdminRoleClaims(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "")

	cases := []struct {
		name      string
		principal *identity.Principal
		want      bool
	}{
		{"nil principal", nil, false},
		{"no claims", &identity.Principal{Email: "user@example.com"}, false},
		{
			"app claim",
			&identity.Principal{AppClaims: map[string]any{"role": "admin"}},
			true,
		},
		{
			"user claim",
			&identity.Principal{UserClaims: map[string]any{"role": "admin"}},
			true,
		},
		{
			"other role",
			&identity.Principal{AppClaims: map[string]any{"role": "editor"}},
			false,
		},
		{
			"non-string role claim",
			&identity.Principal{AppClaims: map[string]any{"role": 42}},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAdmin(tc.principal); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsAdminAllowList(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "Chef@FreshStart.example , owner@freshstart.example")

	if !IsAdmin(&identity.Principal{Email: "chef@freshstart.example"}) {
		t.Fatalf("expected allow-listed email to pass (case-insensitive)")
	}
	if !IsAdmin(&identity.Principal{Email: "OWNER@freshstart.example"}) {
		t.Fatalf("expected allow-listed email to pass regardless of case")
	}
	if IsAdmin(&identity.Principal{Email: "guest@freshstart.example"}) {
		t.Fatalf("expected unknown email to be denied")
	}
	if IsAdmin(&identity.Principal{Email: ""}) {
		t.Fatalf("expected empty email to be denied")
	}
}

func TestIsAdminAllowListReadFresh(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "")
	principal := &identity.Principal{Email: "late@freshstart.example"}

	if IsAdmin(principal) {
		t.Fatalf("expected denial before allow-list update")
	}

	// Operators can extend the list without a restart.
	t.Setenv("ADMIN_EMAILS", "late@freshstart.example")
	if !IsAdmin(principal) {
		t.Fatalf("expected allow-list to be re-read on each check")
	}
}
