package handlers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gold Ring", "gold-ring"},
		{"  Chaîne en Or  ", "cha-ne-en-or"},
		{"Ring!!!", "ring"},
		{"22K  Gold -- Bangle", "22k-gold-bangle"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateSlugAppendsSuffix(t *testing.T) {
	slug := generateSlug("Gold Ring")
	if !strings.HasPrefix(slug, "gold-ring-") {
		t.Fatalf("expected slug prefix, got %q", slug)
	}
	if len(slug) <= len("gold-ring-") {
		t.Fatalf("expected a time suffix, got %q", slug)
	}
}

func TestRandomBase36Length(t *testing.T) {
	out := randomBase36(4)
	if len(out) != 4 {
		t.Fatalf("expected 4 characters, got %q", out)
	}
	for _, r := range out {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')) {
			t.Fatalf("unexpected character %q in %q", r, out)
		}
	}
}

func TestParseSortParam(t *testing.T) {
	if d := parseSortParam("price"); d[0].Key != "price" || d[0].Value != 1 {
		t.Fatalf("price sort wrong: %v", d)
	}
	if d := parseSortParam("-price"); d[0].Key != "price" || d[0].Value != -1 {
		t.Fatalf("-price sort wrong: %v", d)
	}
	if d := parseSortParam("garbage"); d[0].Key != "createdAt" || d[0].Value != -1 {
		t.Fatalf("default sort should be newest first: %v", d)
	}
}

func TestDefaultSKUUsesIDSuffix(t *testing.T) {
	sku := defaultSKU(primitive.NewObjectID())
	if !strings.HasPrefix(sku, "SKU-") {
		t.Fatalf("expected SKU- prefix, got %q", sku)
	}
	if len(sku) != len("SKU-")+8 {
		t.Fatalf("expected 8 id characters, got %q", sku)
	}
	if sku != strings.ToUpper(sku) {
		t.Fatalf("sku should be upper case, got %q", sku)
	}
}
