package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/logger"
	"backend/internal/models"
	"backend/internal/store"
)

// BootstrapTenantHex is the fixed id used for the default tenant before
// it has been persisted, so the very first request can still be served.
const BootstrapTenantHex = "000000000000000000000001"

const scopeKey = "tenantScope"

// ResolveTenantSlug picks the tenant slug for a request: explicit
// header first, then the host's subdomain, then the configured default.
func ResolveTenantSlug(header, host, defaultSlug string) string {
	if slug := strings.ToLower(strings.TrimSpace(header)); slug != "" {
		return slug
	}
	if sub := subdomainOf(host); sub != "" {
		return sub
	}
	return defaultSlug
}

func subdomainOf(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}
	if parts[0] == "www" {
		return ""
	}
	return parts[0]
}

// TenantResolver resolves and validates the tenant before any other
// component runs. Downstream handlers trust the scope it attaches.
func TenantResolver(db *mongo.Database, defaultSlug string) gin.HandlerFunc {
	bootstrapID, _ := primitive.ObjectIDFromHex(BootstrapTenantHex)

	return func(c *gin.Context) {
		slug := ResolveTenantSlug(c.GetHeader("X-Tenant-ID"), c.Request.Host, defaultSlug)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var tenant models.Tenant
		err := db.Collection("tenants").FindOne(ctx, bson.M{"slug": slug}).Decode(&tenant)
		if err == mongo.ErrNoDocuments {
			if slug != defaultSlug {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "store not found"})
				return
			}
			// First-run tolerance: the default tenant is created at
			// startup, but serve the request even if that hasn't
			// happened yet.
			logger.L().Warn("default tenant missing, using bootstrap id", zap.String("slug", slug))
			attachScope(c, db, bootstrapID, slug)
			return
		}
		if err != nil {
			logger.L().Error("tenant lookup failed", zap.String("slug", slug), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
			return
		}

		if !tenant.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "store is disabled"})
			return
		}

		attachScope(c, db, tenant.ID, slug)
	}
}

func attachScope(c *gin.Context, db *mongo.Database, tenantID primitive.ObjectID, slug string) {
	c.Set(scopeKey, store.ForTenant(db, tenantID))
	c.Set("tenantSlug", slug)
	c.Next()
}

// Scope returns the tenant scope attached by TenantResolver.
func Scope(c *gin.Context) *store.Scope {
	return c.MustGet(scopeKey).(*store.Scope)
}
