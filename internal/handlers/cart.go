package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/store"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

/* =======================
   HELPERS
======================= */

func cartTotals(items []models.CartItem) (total float64, itemCount int) {
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
		itemCount += item.Quantity
	}
	return total, itemCount
}

// mergeCartItem adds the quantity onto an existing line for the same
// product, or appends a new line. Returns the resulting quantity for
// that product.
func mergeCartItem(items []models.CartItem, item models.CartItem) ([]models.CartItem, int) {
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return items, items[i].Quantity
		}
	}
	return append(items, item), item.Quantity
}

func cartQuantityOf(items []models.CartItem, productID primitive.ObjectID) int {
	for _, item := range items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// checkCartStock rejects a requested quantity that the inventory row
// cannot cover. Untracked and backorderable products always pass.
func checkCartStock(inv models.Inventory, requested int) error {
	if !inv.TrackInventory || inv.AllowBackorder {
		return nil
	}
	if requested > inv.Stock {
		available := inv.Stock
		if available < 0 {
			available = 0
		}
		return fmt.Errorf("only %d items available", available)
	}
	return nil
}

func firstImage(images []string) string {
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

func loadOrCreateCart(ctx context.Context, scope *store.Scope, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := scope.Carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == nil {
		return cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Cart{}, err
	}

	now := time.Now()
	cart = models.Cart{
		TenantID:  scope.TenantID(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := scope.Carts().InsertOne(ctx, cart)
	if err != nil {
		// Another request may have created the cart in between.
		if mongo.IsDuplicateKeyError(err) {
			err = scope.Carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
			return cart, err
		}
		return models.Cart{}, err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return cart, nil
}

func saveCartItems(ctx context.Context, scope *store.Scope, userID primitive.ObjectID, items []models.CartItem) error {
	_, err := scope.Carts().UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}},
	)
	return err
}

func respondCart(c *gin.Context, cart models.Cart) {
	total, itemCount := cartTotals(cart.Items)
	c.JSON(http.StatusOK, gin.H{
		"items":     cart.Items,
		"total":     total,
		"itemCount": itemCount,
	})
}

/* =======================
   HANDLERS
======================= */

func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, scope, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondCart(c, cart)
	}
}

func AddToCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid product id")
			return
		}

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = scope.Products().FindOne(ctx, bson.M{"_id": productID, "isActive": true}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		cart, err := loadOrCreateCart(ctx, scope, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		var inventory models.Inventory
		err = scope.Inventory().FindOne(ctx, bson.M{"productId": productID}).Decode(&inventory)
		if err != nil && err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		if err == nil {
			requested := cartQuantityOf(cart.Items, productID) + req.Quantity
			if stockErr := checkCartStock(inventory, requested); stockErr != nil {
				respondWithError(c, http.StatusBadRequest, stockErr.Error())
				return
			}
		}

		items, _ := mergeCartItem(cart.Items, models.CartItem{
			ProductID: productID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     firstImage(product.Images),
			Quantity:  req.Quantity,
		})

		if err := saveCartItems(ctx, scope, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		cart.Items = items
		respondCart(c, cart)
	}
}

// UpdateCartItem sets the quantity for a line. Zero removes the line.
func UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid product id")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		quantity := *req.Quantity

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err = scope.Carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "cart not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		if cartQuantityOf(cart.Items, productID) == 0 {
			respondWithError(c, http.StatusNotFound, "item not in cart")
			return
		}

		items := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID != productID {
				items = append(items, item)
				continue
			}
			if quantity == 0 {
				continue
			}
			item.Quantity = quantity
			items = append(items, item)
		}

		if quantity > 0 {
			var inventory models.Inventory
			err = scope.Inventory().FindOne(ctx, bson.M{"productId": productID}).Decode(&inventory)
			if err != nil && err != mongo.ErrNoDocuments {
				respondWithError(c, http.StatusInternalServerError, "db error")
				return
			}
			if err == nil {
				if stockErr := checkCartStock(inventory, quantity); stockErr != nil {
					respondWithError(c, http.StatusBadRequest, stockErr.Error())
					return
				}
			}
		}

		if err := saveCartItems(ctx, scope, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		cart.Items = items
		respondCart(c, cart)
	}
}

func RemoveFromCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid product id")
			return
		}

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err = scope.Carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "cart not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		items := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID != productID {
				items = append(items, item)
			}
		}

		if err := saveCartItems(ctx, scope, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		cart.Items = items
		respondCart(c, cart)
	}
}

func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := saveCartItems(ctx, scope, userID, []models.CartItem{}); err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":     []models.CartItem{},
			"total":     0,
			"itemCount": 0,
		})
	}
}
