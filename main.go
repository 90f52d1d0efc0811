package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/storage"
)

func main() {
	config.Load()

	if err := logger.Init(config.AppEnv.LogLevel, config.AppEnv.Environment); err != nil {
		log.Fatal(err)
	}
	defer logger.L().Sync()

	metrics.Register()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		logger.L().Fatal("mongo connect failed", zap.Error(err))
	}
	db := client.Database(config.AppEnv.DBName)
	logger.L().Info("mongodb connected", zap.String("db", db.Name()))

	if err := database.EnsureIndexes(db); err != nil {
		logger.L().Warn("index warning", zap.Error(err))
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tenant, err := handlers.EnsureDefaultTenant(bootCtx, db, config.AppEnv.DefaultTenantSlug)
	if err != nil {
		logger.L().Fatal("default tenant bootstrap failed", zap.Error(err))
	}
	if err := handlers.EnsureAdminUser(bootCtx, db, tenant.ID, config.AppEnv.AdminEmail, config.AppEnv.AdminPassword); err != nil {
		logger.L().Warn("admin bootstrap warning", zap.Error(err))
	}

	var spaces *storage.Spaces
	if config.AppEnv.SpacesKey != "" {
		spaces, err = storage.NewSpaces(config.AppEnv)
		if err != nil {
			logger.L().Warn("spaces disabled", zap.Error(err))
		}
	} else {
		logger.L().Warn("spaces disabled, no SPACES_KEY configured")
	}

	if config.AppEnv.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware())

	r.GET("/metrics", metrics.Handler())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	jwtSecret := config.AppEnv.JWTSecret
	tokenTTL := config.AppEnv.AccessTokenTTL

	api := r.Group("/api")
	api.Use(middleware.TenantResolver(db, config.AppEnv.DefaultTenantSlug))

	api.POST("/auth/register", handlers.Register(jwtSecret, tokenTTL))
	api.POST("/auth/login", handlers.Login(jwtSecret, tokenTTL))

	api.GET("/products", handlers.GetProducts())
	api.GET("/products/featured", handlers.GetFeaturedProducts())
	api.GET("/products/categories", handlers.GetCategories())
	api.GET("/products/:slug", handlers.GetProductBySlug())
	api.GET("/store-config", handlers.GetPublicStoreConfig())
	api.POST("/leads", handlers.CreateLead())

	user := api.Group("")
	user.Use(middleware.AuthGuard(jwtSecret,
		models.RoleCustomer, models.RoleAdmin, models.RoleSuperAdmin))
	{
		user.GET("/cart", handlers.GetCart())
		user.POST("/cart", handlers.AddToCart())
		user.PATCH("/cart/:productId", handlers.UpdateCartItem())
		user.DELETE("/cart/:productId", handlers.RemoveFromCart())
		user.DELETE("/cart", handlers.ClearCart())

		user.POST("/checkout", handlers.Checkout())
		user.GET("/orders", handlers.GetMyOrders())
		user.GET("/orders/:id", handlers.GetMyOrder())
		user.POST("/orders/:id/cancel", handlers.CancelMyOrder())

		user.GET("/profile", handlers.GetProfile())
		user.PATCH("/profile", handlers.UpdateProfile())
		user.GET("/profile/addresses", handlers.GetAddresses())
		user.POST("/profile/addresses", handlers.AddAddress())
		user.DELETE("/profile/addresses/:index", handlers.DeleteAddress())
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthGuard(jwtSecret, models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.GET("/products", handlers.GetAllProducts())
		admin.POST("/products", handlers.CreateProduct())
		admin.POST("/products/bulk-import", handlers.BulkImportProducts())
		admin.GET("/products/:id", handlers.GetProductWithInventory())
		admin.PATCH("/products/:id", handlers.UpdateProduct())
		admin.POST("/products/:id/toggle-featured", handlers.ToggleFeatured())
		admin.DELETE("/products/:id", handlers.DeleteProduct())

		admin.GET("/inventory", handlers.GetAllInventory())
		admin.GET("/inventory/low-stock", handlers.GetLowStockProducts())
		admin.PATCH("/inventory/:productId", handlers.UpdateInventory())

		admin.GET("/orders", handlers.GetAllOrders())
		admin.GET("/orders/stats", handlers.GetOrderStats())
		admin.GET("/orders/:id", handlers.GetOrder())
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus())

		admin.GET("/leads", handlers.GetLeads())
		admin.GET("/leads/pending-count", handlers.GetPendingLeadCount())
		admin.GET("/leads/:id", handlers.GetLead())
		admin.PATCH("/leads/:id", handlers.UpdateLead())

		admin.GET("/store-config", handlers.GetStoreConfig())
		admin.PATCH("/store-config", handlers.UpdateStoreConfig())

		admin.GET("/customers", handlers.GetCustomers())

		if spaces != nil {
			admin.POST("/upload", handlers.UploadFile(spaces))
			admin.POST("/upload/presign", handlers.PresignUpload(spaces))
		}
	}

	super := api.Group("/super")
	super.Use(middleware.AuthGuard(jwtSecret, models.RoleSuperAdmin))
	{
		super.GET("/tenants", handlers.GetTenants())
		super.POST("/tenants", handlers.CreateTenant())
		super.GET("/tenants/:id", handlers.GetTenant())
		super.PATCH("/tenants/:id", handlers.UpdateTenant())
	}

	logger.L().Info("listening", zap.String("port", config.AppEnv.Port))
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
