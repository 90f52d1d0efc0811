package handlers

import (
	"testing"

	"backend/internal/models"
)

func TestAppendAddressFirstBecomesDefault(t *testing.T) {
	addresses := appendAddress(nil, models.Address{City: "Mumbai"})
	if len(addresses) != 1 || !addresses[0].IsDefault {
		t.Fatalf("first address should be default: %+v", addresses)
	}
}

func TestAppendAddressNewDefaultClearsOthers(t *testing.T) {
	existing := []models.Address{
		{City: "Mumbai", IsDefault: true},
		{City: "Pune"},
	}

	addresses := appendAddress(existing, models.Address{City: "Delhi", IsDefault: true})
	if len(addresses) != 3 {
		t.Fatalf("expected 3 addresses, got %d", len(addresses))
	}

	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			if a.City != "Delhi" {
				t.Fatalf("expected Delhi to be the default, got %s", a.City)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestAppendAddressNonDefaultKeepsExistingDefault(t *testing.T) {
	existing := []models.Address{{City: "Mumbai", IsDefault: true}}

	addresses := appendAddress(existing, models.Address{City: "Pune"})
	if !addresses[0].IsDefault || addresses[1].IsDefault {
		t.Fatalf("default flag should stay on the first address: %+v", addresses)
	}
}

func TestRemoveAddress(t *testing.T) {
	addresses := []models.Address{
		{City: "Mumbai", IsDefault: true},
		{City: "Pune"},
		{City: "Delhi"},
	}

	out, ok := removeAddress(addresses, 1)
	if !ok || len(out) != 2 {
		t.Fatalf("expected removal of index 1, got %v / %v", out, ok)
	}
	if out[0].City != "Mumbai" || out[1].City != "Delhi" {
		t.Fatalf("wrong addresses kept: %+v", out)
	}
}

func TestRemoveAddressReassignsDefault(t *testing.T) {
	addresses := []models.Address{
		{City: "Mumbai", IsDefault: true},
		{City: "Pune"},
	}

	out, ok := removeAddress(addresses, 0)
	if !ok || len(out) != 1 {
		t.Fatalf("expected one address left, got %v", out)
	}
	if !out[0].IsDefault {
		t.Fatal("remaining address should inherit the default flag")
	}
}

func TestRemoveAddressOutOfRange(t *testing.T) {
	addresses := []models.Address{{City: "Mumbai"}}

	if _, ok := removeAddress(addresses, 5); ok {
		t.Fatal("out of range index should fail")
	}
	if _, ok := removeAddress(addresses, -1); ok {
		t.Fatal("negative index should fail")
	}
}
