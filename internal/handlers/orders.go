package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/store"
)

type updateOrderStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	CancelReason string `json:"cancelReason"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

/* =======================
   STATUS TRANSITIONS
======================= */

var orderStatusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusConfirmed:  1,
	models.OrderStatusProcessing: 2,
	models.OrderStatusShipped:    3,
	models.OrderStatusDelivered:  4,
}

var errAlreadyCancelled = fmt.Errorf("order is already cancelled")

// validStatusTransition allows any forward move along the fulfilment
// chain, including jumps, and cancellation from any state that is not
// terminal. Backward moves are rejected so inventory is never restored
// twice.
func validStatusTransition(from, to string) error {
	if from == models.OrderStatusCancelled {
		if to == models.OrderStatusCancelled {
			return errAlreadyCancelled
		}
		return fmt.Errorf("cancelled orders cannot change status")
	}

	if to == models.OrderStatusCancelled {
		if from == models.OrderStatusDelivered {
			return fmt.Errorf("delivered orders cannot be cancelled")
		}
		return nil
	}

	fromRank, ok := orderStatusRank[from]
	if !ok {
		return fmt.Errorf("unknown status %q", from)
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return fmt.Errorf("unknown status %q", to)
	}
	if toRank <= fromRank {
		return fmt.Errorf("cannot move from %s to %s", from, to)
	}
	return nil
}

// restoreOrderStock puts cancelled quantities back onto tracked
// inventory rows.
func restoreOrderStock(ctx context.Context, scope *store.Scope, order models.Order) error {
	for _, line := range order.Items {
		_, err := scope.Inventory().UpdateOne(
			ctx,
			bson.M{"productId": line.ProductID, "trackInventory": true},
			bson.M{
				"$inc": bson.M{"stock": line.Quantity},
				"$set": bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// applyStatusChange validates the transition and persists it, restoring
// stock inside the same transaction when the target is cancelled.
func applyStatusChange(sc mongo.SessionContext, scope *store.Scope, filter bson.M, status, cancelReason string) (models.Order, error) {
	var order models.Order
	if err := scope.Orders().FindOne(sc, filter).Decode(&order); err != nil {
		return models.Order{}, err
	}

	if err := validStatusTransition(order.Status, status); err != nil {
		return models.Order{}, err
	}

	updateSet := bson.M{"status": status, "updatedAt": time.Now()}
	if status == models.OrderStatusCancelled && strings.TrimSpace(cancelReason) != "" {
		updateSet["cancelReason"] = strings.TrimSpace(cancelReason)
	}

	var updated models.Order
	err := scope.Orders().FindOneAndUpdate(
		sc,
		bson.M{"_id": order.ID, "status": order.Status},
		bson.M{"$set": updateSet},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Status changed between read and write, treat as a conflict.
		return models.Order{}, fmt.Errorf("order status changed concurrently")
	}
	if err != nil {
		return models.Order{}, err
	}

	if status == models.OrderStatusCancelled {
		if err := restoreOrderStock(sc, scope, updated); err != nil {
			return models.Order{}, err
		}
	}

	return updated, nil
}

func changeOrderStatus(c *gin.Context, filter bson.M, status, cancelReason string) {
	scope := middleware.Scope(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	session, err := scope.Client().StartSession()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "could not start session")
		return
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return applyStatusChange(sc, scope, filter, status, cancelReason)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "order not found")
			return
		}
		if err == errAlreadyCancelled {
			respondWithError(c, http.StatusConflict, err.Error())
			return
		}
		switch err.Error() {
		case "cancelled orders cannot change status",
			"delivered orders cannot be cancelled",
			"order status changed concurrently":
			respondWithError(c, http.StatusConflict, err.Error())
			return
		}
		if strings.HasPrefix(err.Error(), "cannot move from") || strings.HasPrefix(err.Error(), "unknown status") {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.L().Error("order status update failed", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "db error")
		return
	}

	order := result.(models.Order)
	logger.L().Info("order status changed",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("status", order.Status),
	)
	c.JSON(http.StatusOK, order)
}

/* =======================
   CUSTOMER ENDPOINTS
======================= */

func GetMyOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		filter := bson.M{"userId": userID}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		listOrders(c, scope, filter)
	}
}

func GetMyOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = scope.Orders().FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// CancelMyOrder lets a customer cancel their own order while it has not
// shipped yet.
func CancelMyOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req cancelOrderRequest
		// Body is optional, a bare cancel is fine.
		_ = c.ShouldBindJSON(&req)

		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Customers may only cancel before fulfilment starts shipping.
		scope := middleware.Scope(c)
		var order models.Order
		err = scope.Orders().FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		if order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered {
			respondWithError(c, http.StatusConflict, "order has already shipped")
			return
		}

		changeOrderStatus(c, bson.M{"_id": id, "userId": userID}, models.OrderStatusCancelled, req.Reason)
	}
}

/* =======================
   ADMIN ENDPOINTS
======================= */

func listOrders(c *gin.Context, scope *store.Scope, filter bson.M) {
	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	total, err := scope.Orders().CountDocuments(ctx, filter)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "db error")
		return
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := scope.Orders().Find(ctx, filter, opts)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "db error")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		respondWithError(c, http.StatusInternalServerError, "decode error")
		return
	}

	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

func GetAllOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["orderNumber"] = bson.M{"$regex": search, "$options": "i"}
		}

		listOrders(c, scope, filter)
	}
}

func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = scope.Orders().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		changeOrderStatus(c, bson.M{"_id": id}, req.Status, req.CancelReason)
	}
}

// GetOrderStats powers the admin dashboard tiles.
func GetOrderStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		totalOrders, err := scope.Orders().CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		pendingOrders, err := scope.Orders().CountDocuments(ctx, bson.M{"status": models.OrderStatusPending})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		todayOrders, err := scope.Orders().CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": midnight}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		// Cancelled orders do not count toward revenue.
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{
				{Key: "status", Value: bson.D{{Key: "$nin", Value: bson.A{models.OrderStatusCancelled}}}},
			}}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
			}}},
		}
		cursor, err := scope.Orders().Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		totalRevenue := 0.0
		var rows []struct {
			TotalRevenue float64 `bson:"totalRevenue"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			respondWithError(c, http.StatusInternalServerError, "decode error")
			return
		}
		if len(rows) > 0 {
			totalRevenue = rows[0].TotalRevenue
		}

		c.JSON(http.StatusOK, gin.H{
			"totalOrders":   totalOrders,
			"pendingOrders": pendingOrders,
			"todayOrders":   todayOrders,
			"totalRevenue":  totalRevenue,
		})
	}
}
