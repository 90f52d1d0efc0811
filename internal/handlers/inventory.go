package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/middleware"
	"backend/internal/models"
)

type updateInventoryRequest struct {
	Stock             *int    `json:"stock"`
	LowStockThreshold *int    `json:"lowStockThreshold"`
	TrackInventory    *bool   `json:"trackInventory"`
	AllowBackorder    *bool   `json:"allowBackorder"`
	SKU               *string `json:"sku"`
}

func inventoryWithProductPipeline(lowStockOnly bool) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if lowStockOnly {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "$expr", Value: bson.D{
				{Key: "$lte", Value: bson.A{"$stock", "$lowStockThreshold"}},
			}},
		}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "products"},
			{Key: "localField", Value: "productId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "product.isActive", Value: true}}}},
	)

	return pipeline
}

func runInventoryPipeline(c *gin.Context, lowStockOnly bool) {
	scope := middleware.Scope(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := scope.Inventory().Aggregate(ctx, inventoryWithProductPipeline(lowStockOnly))
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "db error")
		return
	}
	defer cursor.Close(ctx)

	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		respondWithError(c, http.StatusInternalServerError, "decode error")
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetAllInventory joins each inventory row with its active product.
func GetAllInventory() gin.HandlerFunc {
	return func(c *gin.Context) {
		runInventoryPipeline(c, false)
	}
}

// GetLowStockProducts lists rows where stock has fallen to or below the
// per-product threshold.
func GetLowStockProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		runInventoryPipeline(c, true)
	}
}

func UpdateInventory() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid product id")
			return
		}

		var req updateInventoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, "stock must be zero or greater")
				return
			}
			updateSet["stock"] = *req.Stock
		}
		if req.LowStockThreshold != nil {
			updateSet["lowStockThreshold"] = *req.LowStockThreshold
		}
		if req.TrackInventory != nil {
			updateSet["trackInventory"] = *req.TrackInventory
		}
		if req.AllowBackorder != nil {
			updateSet["allowBackorder"] = *req.AllowBackorder
		}
		if req.SKU != nil {
			updateSet["sku"] = *req.SKU
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Inventory
		err = scope.Inventory().FindOneAndUpdate(
			ctx,
			bson.M{"productId": productID},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "inventory not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
