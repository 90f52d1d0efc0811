package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsValues(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "50", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsInvalid(t *testing.T) {
	for _, tt := range []struct{ page, limit string }{
		{"0", ""},
		{"-1", ""},
		{"abc", ""},
		{"", "0"},
		{"", "xyz"},
	} {
		if _, _, err := parsePaginationParams(tt.page, tt.limit, 20); err == nil {
			t.Errorf("expected error for page=%q limit=%q", tt.page, tt.limit)
		}
	}
}

func TestParsePaginationParamsCapsLimit(t *testing.T) {
	_, limit, err := parsePaginationParams("", "1000", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != maxPageSize {
		t.Fatalf("expected limit capped at %d, got %d", maxPageSize, limit)
	}
}
