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
	"backend/internal/store"
)

/* =======================
   REQUEST MODELS
======================= */

type createProductRequest struct {
	Title             string            `json:"title" binding:"required"`
	Description       string            `json:"description"`
	Price             float64           `json:"price" binding:"required,gt=0"`
	CompareAtPrice    float64           `json:"compareAtPrice"`
	Category          string            `json:"category"`
	Images            []string          `json:"images"`
	Videos            []string          `json:"videos"`
	Slug              string            `json:"slug"`
	IsFeatured        bool              `json:"isFeatured"`
	Tags              []string          `json:"tags"`
	Specifications    map[string]string `json:"specifications"`
	SKU               string            `json:"sku"`
	Stock             int               `json:"stock"`
	LowStockThreshold int               `json:"lowStockThreshold"`
	TrackInventory    *bool             `json:"trackInventory"`
	AllowBackorder    bool              `json:"allowBackorder"`
}

type updateProductRequest struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	Price          *float64           `json:"price"`
	CompareAtPrice *float64           `json:"compareAtPrice"`
	Category       *string            `json:"category"`
	Images         *[]string          `json:"images"`
	Videos         *[]string          `json:"videos"`
	Slug           *string            `json:"slug"`
	IsActive       *bool              `json:"isActive"`
	IsFeatured     *bool              `json:"isFeatured"`
	Tags           *[]string          `json:"tags"`
	Specifications *map[string]string `json:"specifications"`
}

/* =======================
   ADMIN – LIST / GET
======================= */

func GetAllProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		listProducts(c, scope, productListFilter(c, false))
	}
}

// GetProductWithInventory returns the product by id regardless of
// isActive, so admins can inspect soft-deleted entries.
func GetProductWithInventory() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = scope.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		var inventory *models.Inventory
		var inv models.Inventory
		err = scope.Inventory().FindOne(ctx, bson.M{"productId": id}).Decode(&inv)
		if err == nil {
			inventory = &inv
		} else if err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":   product,
			"inventory": inventory,
		})
	}
}

/* =======================
   CREATE
======================= */

func defaultSKU(productID primitive.ObjectID) string {
	hex := productID.Hex()
	return "SKU-" + strings.ToUpper(hex[len(hex)-8:])
}

func insertProduct(ctx context.Context, scope *store.Scope, req createProductRequest) (models.Product, error) {
	now := time.Now()

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = generateSlug(req.Title)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Uncategorized"
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	trackInventory := true
	if req.TrackInventory != nil {
		trackInventory = *req.TrackInventory
	}

	lowStockThreshold := req.LowStockThreshold
	if lowStockThreshold <= 0 {
		lowStockThreshold = 5
	}

	product := models.Product{
		TenantID:       scope.TenantID(),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Category:       category,
		Images:         images,
		Videos:         req.Videos,
		Slug:           slug,
		IsActive:       true,
		IsFeatured:     req.IsFeatured,
		Specifications: req.Specifications,
		Tags:           req.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res, err := scope.Products().InsertOne(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		sku = defaultSKU(product.ID)
	}

	inventory := models.Inventory{
		TenantID:          scope.TenantID(),
		ProductID:         product.ID,
		SKU:               sku,
		Stock:             req.Stock,
		LowStockThreshold: lowStockThreshold,
		TrackInventory:    trackInventory,
		AllowBackorder:    req.AllowBackorder,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := scope.Inventory().InsertOne(ctx, inventory); err != nil {
		return models.Product{}, err
	}

	return product, nil
}

func CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := insertProduct(ctx, scope, req)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, "product slug already exists")
				return
			}
			logger.L().Error("product insert failed", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		logger.L().Info("product created",
			zap.String("id", product.ID.Hex()),
			zap.String("slug", product.Slug),
		)
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				respondWithError(c, http.StatusBadRequest, "title required")
				return
			}
			updateSet["title"] = title
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, "invalid price")
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.CompareAtPrice != nil {
			updateSet["compareAtPrice"] = *req.CompareAtPrice
		}
		if req.Category != nil {
			updateSet["category"] = strings.TrimSpace(*req.Category)
		}
		if req.Images != nil {
			updateSet["images"] = *req.Images
		}
		if req.Videos != nil {
			updateSet["videos"] = *req.Videos
		}
		if req.Slug != nil {
			slug := slugify(*req.Slug)
			if slug == "" {
				respondWithError(c, http.StatusBadRequest, "invalid slug")
				return
			}
			updateSet["slug"] = slug
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			updateSet["isFeatured"] = *req.IsFeatured
		}
		if req.Tags != nil {
			updateSet["tags"] = *req.Tags
		}
		if req.Specifications != nil {
			updateSet["specifications"] = *req.Specifications
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Product
		err = scope.Products().FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, "product slug already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ToggleFeatured flips the featured flag.
func ToggleFeatured() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = scope.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		var updated models.Product
		err = scope.Products().FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"isFeatured": !product.IsFeatured, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   DELETE (SOFT)
======================= */

func DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := scope.Products().UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
