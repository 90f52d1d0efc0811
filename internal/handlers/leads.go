package handlers

import (
	"context"
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
)

type createLeadRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerPhone string `json:"customerPhone" binding:"required"`
	CustomerEmail string `json:"customerEmail"`
	ProductID     string `json:"productId"`
	Source        string `json:"source"`
	Notes         string `json:"notes"`
}

type updateLeadRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func validLeadStatus(status string) bool {
	switch status {
	case models.LeadStatusPending,
		models.LeadStatusContacted,
		models.LeadStatusInterested,
		models.LeadStatusSold,
		models.LeadStatusCancelled:
		return true
	}
	return false
}

// CreateLead is the public inquiry endpoint. When the inquiry names a
// product, the title is copied onto the lead so it survives catalog
// edits.
func CreateLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createLeadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		lead := models.Lead{
			TenantID:      scope.TenantID(),
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			CustomerEmail: strings.TrimSpace(req.CustomerEmail),
			Source:        strings.TrimSpace(req.Source),
			Status:        models.LeadStatusPending,
			Notes:         strings.TrimSpace(req.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if lead.Source == "" {
			lead.Source = "website"
		}

		if req.ProductID != "" {
			productID, err := primitive.ObjectIDFromHex(req.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "invalid product id")
				return
			}
			var product models.Product
			err = scope.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, "product not found")
				return
			}
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, "db error")
				return
			}
			lead.ProductID = &productID
			lead.ProductTitle = product.Title
		}

		res, err := scope.Leads().InsertOne(ctx, lead)
		if err != nil {
			logger.L().Error("lead insert failed", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		lead.ID = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, lead)
	}
}

/* =======================
   ADMIN ENDPOINTS
======================= */

func GetLeads() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if source := strings.TrimSpace(c.Query("source")); source != "" {
			filter["source"] = source
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := scope.Leads().CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := scope.Leads().Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		leads := []models.Lead{}
		if err := cursor.All(ctx, &leads); err != nil {
			respondWithError(c, http.StatusInternalServerError, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": leads,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// GetPendingLeadCount backs the notification badge in the admin panel.
func GetPendingLeadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := scope.Leads().CountDocuments(ctx, bson.M{"status": models.LeadStatusPending})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func GetLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var lead models.Lead
		err = scope.Leads().FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "lead not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, lead)
	}
}

func UpdateLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateLeadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{}
		if req.Status != nil {
			if !validLeadStatus(*req.Status) {
				respondWithError(c, http.StatusBadRequest, "invalid lead status")
				return
			}
			updateSet["status"] = *req.Status
		}
		if req.Notes != nil {
			updateSet["notes"] = strings.TrimSpace(*req.Notes)
		}
		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Lead
		err = scope.Leads().FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "lead not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
