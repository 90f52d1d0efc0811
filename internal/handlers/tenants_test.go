package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTenantLookupFilterByID(t *testing.T) {
	id := primitive.NewObjectID()

	filter := tenantLookupFilter(id.Hex())
	got, ok := filter["_id"].(primitive.ObjectID)
	if !ok || got != id {
		t.Fatalf("expected _id filter for hex input, got %v", filter)
	}
	if _, ok := filter["slug"]; ok {
		t.Fatalf("id lookup should not filter on slug: %v", filter)
	}
}

func TestTenantLookupFilterBySlug(t *testing.T) {
	filter := tenantLookupFilter("  Acme-Jewels ")
	if filter["slug"] != "acme-jewels" {
		t.Fatalf("expected normalized slug filter, got %v", filter)
	}
	if _, ok := filter["_id"]; ok {
		t.Fatalf("slug lookup should not filter on _id: %v", filter)
	}
}

func TestTenantLookupFilterShortHexIsSlug(t *testing.T) {
	// 12 hex characters is a valid slug, not an object id.
	filter := tenantLookupFilter("abcdef123456")
	if _, ok := filter["slug"]; !ok {
		t.Fatalf("expected slug filter for non-id input, got %v", filter)
	}
}
