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
	"backend/internal/store"
)

type updateStoreConfigRequest struct {
	StoreName        *string               `json:"storeName"`
	StoreDescription *string               `json:"storeDescription"`
	LogoURL          *string               `json:"logoUrl"`
	FaviconURL       *string               `json:"faviconUrl"`
	PrimaryColor     *string               `json:"primaryColor"`
	SecondaryColor   *string               `json:"secondaryColor"`
	BackgroundColor  *string               `json:"backgroundColor"`
	TextColor        *string               `json:"textColor"`
	HeroBanners      *[]models.HeroBanner  `json:"heroBanners"`
	Categories       *[]models.NavCategory `json:"categories"`
	AboutUs          *models.AboutSection  `json:"aboutUs"`
	ContactEmail     *string               `json:"contactEmail"`
	ContactPhone     *string               `json:"contactPhone"`
	Address          *string               `json:"address"`
	SocialLinks      *models.SocialLinks   `json:"socialLinks"`
	SEO              *models.SEOConfig     `json:"seo"`
	Currency         *string               `json:"currency"`
	CurrencySymbol   *string               `json:"currencySymbol"`
}

// defaultStoreConfig seeds a new tenant with a workable dark jewelry
// theme and a standard navigation.
func defaultStoreConfig(tenantID primitive.ObjectID) models.StoreConfig {
	now := time.Now()
	return models.StoreConfig{
		TenantID:        tenantID,
		StoreName:       "My Jewelry Store",
		PrimaryColor:    "#d4af37",
		SecondaryColor:  "#1a1a2e",
		BackgroundColor: "#0f0f1a",
		TextColor:       "#ffffff",
		Categories: []models.NavCategory{
			{Name: "Rings", Slug: "rings", ShowInNavbar: true, Order: 0},
			{Name: "Necklaces", Slug: "necklaces", ShowInNavbar: true, Order: 1},
			{Name: "Earrings", Slug: "earrings", ShowInNavbar: true, Order: 2},
			{Name: "Bracelets", Slug: "bracelets", Order: 3},
			{Name: "Pendants", Slug: "pendants", Order: 4},
		},
		Currency:       "INR",
		CurrencySymbol: "₹",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func loadOrCreateStoreConfig(ctx context.Context, scope *store.Scope) (models.StoreConfig, error) {
	var config models.StoreConfig
	err := scope.Configs().FindOne(ctx, bson.M{}).Decode(&config)
	if err == nil {
		return config, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.StoreConfig{}, err
	}

	config = defaultStoreConfig(scope.TenantID())
	res, err := scope.Configs().InsertOne(ctx, config)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = scope.Configs().FindOne(ctx, bson.M{}).Decode(&config)
			return config, err
		}
		return models.StoreConfig{}, err
	}
	config.ID = res.InsertedID.(primitive.ObjectID)
	return config, nil
}

// GetPublicStoreConfig is the storefront theming endpoint. No auth, and
// internal fields like tenantId stay out of the payload.
func GetPublicStoreConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		config, err := loadOrCreateStoreConfig(ctx, scope)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"storeName":        config.StoreName,
			"storeDescription": config.StoreDescription,
			"logoUrl":          config.LogoURL,
			"faviconUrl":       config.FaviconURL,
			"primaryColor":     config.PrimaryColor,
			"secondaryColor":   config.SecondaryColor,
			"backgroundColor":  config.BackgroundColor,
			"textColor":        config.TextColor,
			"heroBanners":      config.HeroBanners,
			"categories":       config.Categories,
			"aboutUs":          config.AboutUs,
			"contactEmail":     config.ContactEmail,
			"contactPhone":     config.ContactPhone,
			"address":          config.Address,
			"socialLinks":      config.SocialLinks,
			"seo":              config.SEO,
			"currency":         config.Currency,
			"currencySymbol":   config.CurrencySymbol,
		})
	}
}

func GetStoreConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		config, err := loadOrCreateStoreConfig(ctx, scope)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, config)
	}
}

func UpdateStoreConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStoreConfigRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{}
		if req.StoreName != nil {
			updateSet["storeName"] = *req.StoreName
		}
		if req.StoreDescription != nil {
			updateSet["storeDescription"] = *req.StoreDescription
		}
		if req.LogoURL != nil {
			updateSet["logoUrl"] = *req.LogoURL
		}
		if req.FaviconURL != nil {
			updateSet["faviconUrl"] = *req.FaviconURL
		}
		if req.PrimaryColor != nil {
			updateSet["primaryColor"] = *req.PrimaryColor
		}
		if req.SecondaryColor != nil {
			updateSet["secondaryColor"] = *req.SecondaryColor
		}
		if req.BackgroundColor != nil {
			updateSet["backgroundColor"] = *req.BackgroundColor
		}
		if req.TextColor != nil {
			updateSet["textColor"] = *req.TextColor
		}
		if req.HeroBanners != nil {
			updateSet["heroBanners"] = *req.HeroBanners
		}
		if req.Categories != nil {
			updateSet["categories"] = *req.Categories
		}
		if req.AboutUs != nil {
			updateSet["aboutUs"] = *req.AboutUs
		}
		if req.ContactEmail != nil {
			updateSet["contactEmail"] = *req.ContactEmail
		}
		if req.ContactPhone != nil {
			updateSet["contactPhone"] = *req.ContactPhone
		}
		if req.Address != nil {
			updateSet["address"] = *req.Address
		}
		if req.SocialLinks != nil {
			updateSet["socialLinks"] = *req.SocialLinks
		}
		if req.SEO != nil {
			updateSet["seo"] = *req.SEO
		}
		if req.Currency != nil {
			updateSet["currency"] = *req.Currency
		}
		if req.CurrencySymbol != nil {
			updateSet["currencySymbol"] = *req.CurrencySymbol
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Ensure the document exists before patching it.
		if _, err := loadOrCreateStoreConfig(ctx, scope); err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		var updated models.StoreConfig
		err := scope.Configs().FindOneAndUpdate(
			ctx,
			bson.M{},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
