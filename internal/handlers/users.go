package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/middleware"
	"backend/internal/models"
)

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type addAddressRequest struct {
	Label        string `json:"label"`
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
	IsDefault    bool   `json:"isDefault"`
}

/* =======================
   HELPERS
======================= */

// appendAddress adds the new address, clearing other default flags when
// the new one is the default. The first address always becomes default.
func appendAddress(addresses []models.Address, address models.Address) []models.Address {
	if len(addresses) == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		for i := range addresses {
			addresses[i].IsDefault = false
		}
	}
	return append(addresses, address)
}

// removeAddress drops the address at index. When the removed address was
// the default, the first remaining one inherits the flag.
func removeAddress(addresses []models.Address, index int) ([]models.Address, bool) {
	if index < 0 || index >= len(addresses) {
		return addresses, false
	}
	wasDefault := addresses[index].IsDefault
	out := append(addresses[:index:index], addresses[index+1:]...)
	if wasDefault && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out, true
}

/* =======================
   PROFILE
======================= */

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := scope.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, "name required")
				return
			}
			updateSet["name"] = name
		}
		if req.Phone != nil {
			updateSet["phone"] = strings.TrimSpace(*req.Phone)
		}
		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err := scope.Users().FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   ADDRESSES
======================= */

func GetAddresses() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := scope.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		if user.Addresses == nil {
			user.Addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, user.Addresses)
	}
}

func AddAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := scope.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		addresses := appendAddress(user.Addresses, models.Address{
			Label:        strings.TrimSpace(req.Label),
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        strings.TrimSpace(req.Phone),
			AddressLine1: strings.TrimSpace(req.AddressLine1),
			AddressLine2: strings.TrimSpace(req.AddressLine2),
			City:         strings.TrimSpace(req.City),
			State:        strings.TrimSpace(req.State),
			Pincode:      strings.TrimSpace(req.Pincode),
			IsDefault:    req.IsDefault,
		})

		_, err = scope.Users().UpdateOne(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"addresses": addresses, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusCreated, addresses)
	}
}

func DeleteAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid address index")
			return
		}

		scope := middleware.Scope(c)
		userID := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = scope.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		addresses, ok := removeAddress(user.Addresses, index)
		if !ok {
			respondWithError(c, http.StatusNotFound, "address not found")
			return
		}

		_, err = scope.Users().UpdateOne(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"addresses": addresses, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, addresses)
	}
}

/* =======================
   ADMIN
======================= */

func GetCustomers() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}

		filter := bson.M{"role": models.RoleCustomer}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"email": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := scope.Users().CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetProjection(bson.M{"passwordHash": 0})

		cursor, err := scope.Users().Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		customers := []models.User{}
		if err := cursor.All(ctx, &customers); err != nil {
			respondWithError(c, http.StatusInternalServerError, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": customers,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}
