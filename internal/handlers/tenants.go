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
	"golang.org/x/crypto/bcrypt"

	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/models"
)

type createTenantRequest struct {
	Name       string `json:"name" binding:"required"`
	Slug       string `json:"slug" binding:"required"`
	Domain     string `json:"domain"`
	OwnerEmail string `json:"ownerEmail"`
	OwnerPhone string `json:"ownerPhone"`
}

type updateTenantRequest struct {
	Name       *string `json:"name"`
	Domain     *string `json:"domain"`
	IsActive   *bool   `json:"isActive"`
	OwnerEmail *string `json:"ownerEmail"`
	OwnerPhone *string `json:"ownerPhone"`
}

/* =======================
   SUPER ADMIN CRUD
======================= */

// tenantLookupFilter matches either a hex object id or a slug, so the
// admin panel can fetch a store by its address.
func tenantLookupFilter(param string) bson.M {
	if id, err := primitive.ObjectIDFromHex(param); err == nil {
		return bson.M{"_id": id}
	}
	return bson.M{"slug": strings.ToLower(strings.TrimSpace(param))}
}

func GetTenants() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := scope.Tenants().Find(ctx, bson.M{}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		tenants := []models.Tenant{}
		if err := cursor.All(ctx, &tenants); err != nil {
			respondWithError(c, http.StatusInternalServerError, "decode error")
			return
		}

		c.JSON(http.StatusOK, tenants)
	}
}

func GetTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var tenant models.Tenant
		err := scope.Tenants().FindOne(ctx, tenantLookupFilter(c.Param("id"))).Decode(&tenant)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "tenant not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, tenant)
	}
}

func CreateTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		slug := slugify(req.Slug)
		if slug == "" {
			respondWithError(c, http.StatusBadRequest, "invalid slug")
			return
		}

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		tenant := models.Tenant{
			Name:       strings.TrimSpace(req.Name),
			Slug:       slug,
			Domain:     strings.ToLower(strings.TrimSpace(req.Domain)),
			IsActive:   true,
			OwnerEmail: strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
			OwnerPhone: strings.TrimSpace(req.OwnerPhone),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		res, err := scope.Tenants().InsertOne(ctx, tenant)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, "slug already in use")
				return
			}
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		tenant.ID = res.InsertedID.(primitive.ObjectID)

		logger.L().Info("tenant created",
			zap.String("slug", tenant.Slug),
			zap.String("id", tenant.ID.Hex()),
		)
		c.JSON(http.StatusCreated, tenant)
	}
}

func UpdateTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateTenantRequest
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
		if req.Domain != nil {
			updateSet["domain"] = strings.ToLower(strings.TrimSpace(*req.Domain))
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.OwnerEmail != nil {
			updateSet["ownerEmail"] = strings.ToLower(strings.TrimSpace(*req.OwnerEmail))
		}
		if req.OwnerPhone != nil {
			updateSet["ownerPhone"] = strings.TrimSpace(*req.OwnerPhone)
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Tenant
		err = scope.Tenants().FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, "tenant not found")
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
   STARTUP BOOTSTRAP
======================= */

// EnsureDefaultTenant creates the default tenant on first run so the
// service is usable before any tenant has been provisioned.
func EnsureDefaultTenant(ctx context.Context, db *mongo.Database, slug string) (models.Tenant, error) {
	tenants := db.Collection("tenants")

	var tenant models.Tenant
	err := tenants.FindOne(ctx, bson.M{"slug": slug}).Decode(&tenant)
	if err == nil {
		return tenant, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Tenant{}, err
	}

	bootstrapID, _ := primitive.ObjectIDFromHex(middleware.BootstrapTenantHex)
	now := time.Now()
	tenant = models.Tenant{
		ID:        bootstrapID,
		Name:      "Default Store",
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := tenants.InsertOne(ctx, tenant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = tenants.FindOne(ctx, bson.M{"slug": slug}).Decode(&tenant)
			return tenant, err
		}
		return models.Tenant{}, err
	}

	logger.L().Info("default tenant created", zap.String("slug", slug))
	return tenant, nil
}

// EnsureAdminUser seeds the admin account for a tenant when the
// credentials are configured and no such user exists yet.
func EnsureAdminUser(ctx context.Context, db *mongo.Database, tenantID primitive.ObjectID, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	users := db.Collection("users")
	err := users.FindOne(ctx, bson.M{"tenantId": tenantID, "email": email}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = users.InsertOne(ctx, models.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         models.RoleSuperAdmin,
		Addresses:    []models.Address{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err == nil {
		logger.L().Info("admin user created", zap.String("email", email))
	}
	return err
}
