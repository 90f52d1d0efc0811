package handlers

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
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
	"backend/internal/store"
)

/* =======================
   HELPERS
======================= */

// slugify lowercases the title and collapses every non-alphanumeric run
// into a single dash.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// generateSlug appends a time-based suffix so titles don't have to be
// unique.
func generateSlug(title string) string {
	return slugify(title) + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return strings.Repeat("0", n)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}

func parseSortParam(sort string) bson.D {
	switch sort {
	case "price":
		return bson.D{{Key: "price", Value: 1}}
	case "-price":
		return bson.D{{Key: "price", Value: -1}}
	case "title":
		return bson.D{{Key: "title", Value: 1}}
	case "createdAt":
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func productListFilter(c *gin.Context, publicOnly bool) bson.M {
	filter := bson.M{}
	if publicOnly {
		filter["isActive"] = true
	} else if isActive := strings.TrimSpace(c.Query("isActive")); isActive != "" {
		filter["isActive"] = strings.EqualFold(isActive, "true")
	}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter["category"] = category
	}

	if featured := strings.TrimSpace(c.Query("featured")); featured != "" {
		filter["isFeatured"] = strings.EqualFold(featured, "true")
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	return filter
}

func listProducts(c *gin.Context, scope *store.Scope, filter bson.M) {
	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	total, err := scope.Products().CountDocuments(ctx, filter)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "db error")
		return
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(parseSortParam(c.Query("sort")))

	cursor, err := scope.Products().Find(ctx, filter, opts)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "db error")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		respondWithError(c, http.StatusInternalServerError, "decode error")
		return
	}

	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

/* =======================
   PUBLIC ENDPOINTS
======================= */

func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		listProducts(c, scope, productListFilter(c, true))
	}
}

func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		categories, err := scope.Products().Distinct(ctx, "category", bson.M{"isActive": true})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}

func GetFeaturedProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(8)

		cursor, err := scope.Products().Find(ctx, bson.M{"isActive": true, "isFeatured": true}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, "decode error")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// GetProductBySlug serves the storefront detail page: the product plus
// a small inventory projection.
func GetProductBySlug() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)
		slug := c.Param("slug")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := scope.Products().FindOne(ctx, bson.M{"slug": slug, "isActive": true}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		var inventoryView gin.H
		var inventory models.Inventory
		err = scope.Inventory().FindOne(ctx, bson.M{"productId": product.ID}).Decode(&inventory)
		if err == nil {
			inventoryView = gin.H{
				"stock":   inventory.Stock,
				"sku":     inventory.SKU,
				"inStock": inventory.Stock > 0 || inventory.AllowBackorder,
			}
		} else if err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":   product,
			"inventory": inventoryView,
		})
	}
}
