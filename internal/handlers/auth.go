package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a tenant-scoped customer account and returns the
// account together with a signed token.
func Register(jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)
		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := scope.Users().CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, "user with this email already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			TenantID:     scope.TenantID(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         models.RoleCustomer,
			Addresses:    []models.Address{},
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := scope.Users().InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, "user with this email already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, "db error")
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		token, err := issueToken(user, scope.TenantID(), jwtSecret, tokenTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "token generation failed")
			return
		}

		logger.L().Info("user registered", zap.String("email", email))
		c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
	}
}

// Login verifies credentials within the resolved tenant. Disabled
// accounts are rejected even with a valid password.
func Login(jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)
		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := scope.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			respondWithError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if !user.IsActive {
			respondWithError(c, http.StatusForbidden, "account is disabled")
			return
		}

		token, err := issueToken(user, scope.TenantID(), jwtSecret, tokenTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, "token generation failed")
			return
		}

		logger.L().Info("login succeeded", zap.String("email", email))
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

func issueToken(user models.User, tenantID primitive.ObjectID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.Hex(),
		"email":    user.Email,
		"role":     user.Role,
		"tenantId": tenantID.Hex(),
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
