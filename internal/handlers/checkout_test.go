package handlers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

func TestNewOrderNumberFormat(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	got := newOrderNumber(at, "ab3z")

	if !strings.HasPrefix(got, "ORD-") {
		t.Fatalf("expected ORD- prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "-AB3Z") {
		t.Fatalf("expected uppercased suffix, got %q", got)
	}
	if got != strings.ToUpper(got) {
		t.Fatalf("order number should be upper case, got %q", got)
	}

	parts := strings.Split(got, "-")
	if len(parts) != 3 {
		t.Fatalf("expected three dash-separated parts, got %q", got)
	}
}

func TestNewOrderNumberDiffersBySuffix(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	if newOrderNumber(at, "aaaa") == newOrderNumber(at, "bbbb") {
		t.Fatal("same timestamp with different suffixes must differ")
	}
}

func TestOrderSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 49.5, Quantity: 1},
	}
	if got := orderSubtotal(items); got != 249.5 {
		t.Fatalf("expected 249.5, got %v", got)
	}
	if got := orderSubtotal(nil); got != 0 {
		t.Fatalf("expected 0 for empty order, got %v", got)
	}
}

func TestBuildOrderItemsFreezesCartLines(t *testing.T) {
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	cartItems := []models.CartItem{
		{ProductID: productID, Title: "Ring", Price: 100, Image: "r.jpg", Quantity: 2},
		{ProductID: other, Title: "Chain", Price: 50, Quantity: 1},
	}
	skus := map[primitive.ObjectID]string{productID: "SKU-RING"}

	items := buildOrderItems(cartItems, skus)
	if len(items) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(items))
	}
	if items[0].SKU != "SKU-RING" {
		t.Fatalf("expected sku captured from inventory, got %q", items[0].SKU)
	}
	if items[1].SKU != "" {
		t.Fatalf("expected empty sku when no inventory row, got %q", items[1].SKU)
	}
	if items[0].Title != "Ring" || items[0].Price != 100 || items[0].Quantity != 2 {
		t.Fatalf("cart line not copied: %+v", items[0])
	}
}

func TestIsOrderNumberCollision(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
	if !isOrderNumberCollision(dup) {
		t.Fatal("duplicate key write exception should count as a collision")
	}

	if isOrderNumberCollision(errors.New("network down")) {
		t.Fatal("unrelated errors must not trigger the retry")
	}
	if isOrderNumberCollision(nil) {
		t.Fatal("nil error must not trigger the retry")
	}
}

func TestCheckoutStockErrorMessage(t *testing.T) {
	err := checkoutStockError{title: "Gold Ring", available: 2}
	want := `not enough stock for "Gold Ring". Available: 2`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
