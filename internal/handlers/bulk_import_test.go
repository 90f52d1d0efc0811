package handlers

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseBulkProductsColumnAliases(t *testing.T) {
	csv := "Name,Price,Stock,Category,image\n" +
		"Gold Ring,1200,5,Rings,a.jpg\n" +
		"Silver Chain,800,3,Necklaces,\"b.jpg, c.jpg\"\n"

	requests, errs := parseBulkProducts([]byte(csv))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(requests))
	}

	first := requests[0]
	if first.Title != "Gold Ring" || first.Price != 1200 || first.Stock != 5 {
		t.Fatalf("aliased columns not mapped: %+v", first)
	}
	if len(requests[1].Images) != 2 {
		t.Fatalf("expected image list split on commas, got %v", requests[1].Images)
	}
}

func TestParseBulkProductsCollectsRowErrors(t *testing.T) {
	csv := "title,price\n" +
		",100\n" +
		"No Price,\n" +
		"Negative,-5\n" +
		"Valid,10\n"

	requests, errs := parseBulkProducts([]byte(csv))
	if len(requests) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(requests))
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %v", len(errs), errs)
	}
	for _, e := range errs {
		if !strings.Contains(e, "row ") {
			t.Fatalf("error should name the row: %q", e)
		}
	}
}

func TestParseBulkProductsFeaturedAndTags(t *testing.T) {
	csv := "title,price,tags,isFeatured\n" +
		"Pendant,300,\"new, sale\",true\n"

	requests, errs := parseBulkProducts([]byte(csv))
	if len(errs) != 0 || len(requests) != 1 {
		t.Fatalf("unexpected parse result: %v / %v", requests, errs)
	}
	if !requests[0].IsFeatured {
		t.Fatal("expected featured flag from isFeatured column")
	}
	if len(requests[0].Tags) != 2 || requests[0].Tags[0] != "new" {
		t.Fatalf("expected split tags, got %v", requests[0].Tags)
	}
}

func TestCapErrorsReportsFirstTen(t *testing.T) {
	var errs []string
	for i := 0; i < 25; i++ {
		errs = append(errs, fmt.Sprintf("row %d: bad", i))
	}

	capped := capErrors(errs, 10)
	if len(capped) != 10 {
		t.Fatalf("expected 10 errors, got %d", len(capped))
	}
	if capped[0] != "row 0: bad" {
		t.Fatalf("expected first errors kept, got %q", capped[0])
	}
}

func TestParseBulkProductsEmptyFile(t *testing.T) {
	requests, errs := parseBulkProducts([]byte(""))
	if len(requests) != 0 || len(errs) != 1 {
		t.Fatalf("expected single parse error for empty payload, got %v / %v", requests, errs)
	}
}
