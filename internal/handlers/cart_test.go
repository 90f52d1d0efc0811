package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestCartTotals(t *testing.T) {
	items := []models.CartItem{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	}

	total, itemCount := cartTotals(items)
	if total != 250 {
		t.Fatalf("expected total 250, got %v", total)
	}
	if itemCount != 3 {
		t.Fatalf("expected item count 3, got %d", itemCount)
	}
}

func TestCartTotalsEmpty(t *testing.T) {
	total, itemCount := cartTotals(nil)
	if total != 0 || itemCount != 0 {
		t.Fatalf("expected zero totals, got %v / %d", total, itemCount)
	}
}

func TestMergeCartItemExistingLine(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Title: "Ring", Price: 100, Quantity: 2},
	}

	merged, quantity := mergeCartItem(items, models.CartItem{
		ProductID: productID,
		Title:     "Ring",
		Price:     100,
		Quantity:  1,
	})

	if len(merged) != 1 {
		t.Fatalf("expected a single line, got %d", len(merged))
	}
	if quantity != 3 || merged[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", merged[0].Quantity)
	}

	total, _ := cartTotals(merged)
	if total != 300 {
		t.Fatalf("expected total 300, got %v", total)
	}
}

func TestMergeCartItemNewLine(t *testing.T) {
	items := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	}

	merged, quantity := mergeCartItem(items, models.CartItem{
		ProductID: primitive.NewObjectID(),
		Quantity:  2,
	})

	if len(merged) != 2 {
		t.Fatalf("expected two lines, got %d", len(merged))
	}
	if quantity != 2 {
		t.Fatalf("expected quantity 2 for the new line, got %d", quantity)
	}
}

func TestCheckCartStock(t *testing.T) {
	tracked := models.Inventory{TrackInventory: true, Stock: 3}

	if err := checkCartStock(tracked, 3); err != nil {
		t.Fatalf("expected 3 of 3 to pass, got %v", err)
	}
	if err := checkCartStock(tracked, 4); err == nil {
		t.Fatal("expected error when requesting above stock")
	} else if err.Error() != "only 3 items available" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	backorder := models.Inventory{TrackInventory: true, Stock: 0, AllowBackorder: true}
	if err := checkCartStock(backorder, 100); err != nil {
		t.Fatalf("backorderable products should always pass, got %v", err)
	}

	untracked := models.Inventory{TrackInventory: false, Stock: 0}
	if err := checkCartStock(untracked, 10); err != nil {
		t.Fatalf("untracked products should always pass, got %v", err)
	}
}

func TestCartQuantityOf(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Quantity: 5},
		{ProductID: productID, Quantity: 2},
	}

	if got := cartQuantityOf(items, productID); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := cartQuantityOf(items, primitive.NewObjectID()); got != 0 {
		t.Fatalf("expected 0 for missing product, got %d", got)
	}
}

func TestFirstImage(t *testing.T) {
	if got := firstImage([]string{"a.jpg", "b.jpg"}); got != "a.jpg" {
		t.Fatalf("expected first image, got %q", got)
	}
	if got := firstImage(nil); got != "" {
		t.Fatalf("expected empty string for no images, got %q", got)
	}
}
