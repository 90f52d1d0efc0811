package storage

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ring Photo.JPG", "ring-photo.jpg"},
		{"my__photo (1).png", "my-photo-1-.png"},
		{"ünïcode.jpg", "n-code.jpg"},
		{"---.jpg", ".jpg"},
		{"clean-name.webp", "clean-name.webp"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestObjectKeyShape(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	key := ObjectKey("products", "Ring Photo.JPG", at)

	if !strings.HasPrefix(key, "products/1700000000000-") {
		t.Fatalf("expected folder and timestamp prefix, got %q", key)
	}
	if !strings.HasSuffix(key, "-ring-photo.jpg") {
		t.Fatalf("expected sanitized filename suffix, got %q", key)
	}
}

func TestObjectKeyEmptyFilename(t *testing.T) {
	key := ObjectKey("uploads", "???", time.Now())
	if !strings.HasSuffix(key, "-file") {
		t.Fatalf("expected fallback name for unusable filename, got %q", key)
	}
}

func TestObjectKeyUnique(t *testing.T) {
	at := time.Now()
	if ObjectKey("a", "x.jpg", at) == ObjectKey("a", "x.jpg", at) {
		t.Fatal("keys for the same input must still differ")
	}
}
