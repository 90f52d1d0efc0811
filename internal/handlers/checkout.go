package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/store"
)

type checkoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	Notes           string                 `json:"notes"`
}

type checkoutStockError struct {
	title     string
	available int
}

func (e checkoutStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q. Available: %d", e.title, e.available)
}

// isOrderNumberCollision reports whether the error is the unique-index
// violation on orderNumber.
func isOrderNumberCollision(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

/* =======================
   HELPERS
======================= */

// newOrderNumber builds a human-readable identifier from a millisecond
// timestamp and a random suffix, both base36 upper.
func newOrderNumber(at time.Time, suffix string) string {
	stamp := strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
	return "ORD-" + stamp + "-" + strings.ToUpper(suffix)
}

func orderSubtotal(items []models.OrderItem) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// buildOrderItems freezes cart lines into order lines, capturing the
// SKU from each product's inventory row.
func buildOrderItems(cartItems []models.CartItem, skus map[primitive.ObjectID]string) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(cartItems))
	for _, line := range cartItems {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Image:     line.Image,
			Quantity:  line.Quantity,
			SKU:       skus[line.ProductID],
		})
	}
	return items
}

/* =======================
   TRANSACTION BODY
======================= */

// placeOrder runs the whole checkout inside one transaction: stock
// verification, order insert, stock decrement and cart clear either all
// commit or all roll back.
func placeOrder(sc mongo.SessionContext, scope *store.Scope, userID primitive.ObjectID, req checkoutRequest) (models.Order, error) {
	var cart models.Cart
	err := scope.Carts().FindOne(sc, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments || (err == nil && len(cart.Items) == 0) {
		return models.Order{}, fmt.Errorf("cart is empty")
	}
	if err != nil {
		return models.Order{}, err
	}

	skus := map[primitive.ObjectID]string{}
	for _, line := range cart.Items {
		var inv models.Inventory
		err := scope.Inventory().FindOne(sc, bson.M{"productId": line.ProductID}).Decode(&inv)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return models.Order{}, err
		}
		skus[line.ProductID] = inv.SKU
		if inv.TrackInventory && !inv.AllowBackorder && line.Quantity > inv.Stock {
			available := inv.Stock
			if available < 0 {
				available = 0
			}
			return models.Order{}, checkoutStockError{title: line.Title, available: available}
		}
	}

	now := time.Now()
	items := buildOrderItems(cart.Items, skus)
	subtotal := orderSubtotal(items)

	order := models.Order{
		TenantID:        scope.TenantID(),
		UserID:          userID,
		OrderNumber:     newOrderNumber(now, randomBase36(4)),
		Items:           items,
		Subtotal:        subtotal,
		Tax:             0,
		ShippingCost:    0,
		Total:           subtotal,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := scope.Orders().InsertOne(sc, order)
	if err != nil {
		// A duplicate orderNumber aborts the whole transaction, so the
		// retry happens one level up where it can start a fresh one.
		return models.Order{}, err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	for _, line := range order.Items {
		// Pipeline update floors the stock at zero so backorders never
		// drive it negative.
		_, err := scope.Inventory().UpdateOne(
			sc,
			bson.M{"productId": line.ProductID, "trackInventory": true},
			mongo.Pipeline{
				bson.D{{Key: "$set", Value: bson.D{
					{Key: "stock", Value: bson.D{{Key: "$max", Value: bson.A{
						0,
						bson.D{{Key: "$subtract", Value: bson.A{"$stock", line.Quantity}}},
					}}}},
					{Key: "updatedAt", Value: time.Now()},
				}}},
			},
		)
		if err != nil {
			return models.Order{}, err
		}
	}

	if _, err := scope.Carts().UpdateOne(
		sc,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": now}},
	); err != nil {
		return models.Order{}, err
	}

	return order, nil
}

/* =======================
   HANDLER
======================= */

func Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		session, err := scope.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "could not start session")
			return
		}
		defer session.EndSession(ctx)

		run := func() (interface{}, error) {
			return session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
				return placeOrder(sc, scope, userID, req)
			})
		}

		result, err := run()
		if isOrderNumberCollision(err) {
			// Millisecond collision on the order number. The rerun
			// generates a fresh one; a second collision surfaces.
			result, err = run()
		}
		if err != nil {
			if stockErr, ok := err.(checkoutStockError); ok {
				metrics.CheckoutCounter.WithLabelValues("out_of_stock").Inc()
				respondWithError(c, http.StatusConflict, stockErr.Error())
				return
			}
			if err.Error() == "cart is empty" {
				metrics.CheckoutCounter.WithLabelValues("empty_cart").Inc()
				respondWithError(c, http.StatusBadRequest, "cart is empty")
				return
			}
			metrics.CheckoutCounter.WithLabelValues("error").Inc()
			logger.L().Error("checkout failed", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "checkout failed")
			return
		}

		order := result.(models.Order)
		metrics.CheckoutCounter.WithLabelValues("success").Inc()
		logger.L().Info("order placed",
			zap.String("orderNumber", order.OrderNumber),
			zap.Float64("total", order.Total),
		)
		c.JSON(http.StatusCreated, order)
	}
}
