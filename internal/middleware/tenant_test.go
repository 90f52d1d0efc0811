package middleware

import "testing"

func TestResolveTenantSlugHeaderWins(t *testing.T) {
	slug := ResolveTenantSlug("Acme", "other.example.com", "default")
	if slug != "acme" {
		t.Fatalf("expected header slug acme, got %q", slug)
	}
}

func TestResolveTenantSlugSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"acme.example.com", "acme"},
		{"acme.example.com:8080", "acme"},
		{"www.example.com", "default"},
		{"example.com", "default"},
		{"localhost", "default"},
		{"localhost:8080", "default"},
		{"127.0.0.1:8080", "default"},
	}

	for _, tt := range tests {
		if got := ResolveTenantSlug("", tt.host, "default"); got != tt.want {
			t.Errorf("host %q: expected %q, got %q", tt.host, tt.want, got)
		}
	}
}

func TestResolveTenantSlugDefault(t *testing.T) {
	if got := ResolveTenantSlug("  ", "example.com", "mystore"); got != "mystore" {
		t.Fatalf("expected default slug, got %q", got)
	}
}
