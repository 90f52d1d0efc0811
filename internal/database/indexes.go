package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/logger"
)

// EnsureIndexes creates the unique and listing indexes every collection
// relies on. Uniqueness of slugs, emails and order numbers is enforced
// here rather than in application code.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"tenants": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("slug_unique").SetUnique(true),
			},
		},
		"users": {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "email", Value: 1}},
				Options: options.Index().SetName("tenant_email_unique").SetUnique(true),
			},
		},
		"products": {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "slug", Value: 1}},
				Options: options.Index().SetName("tenant_slug_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "category", Value: 1}},
				Options: options.Index().SetName("tenant_category"),
			},
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "isFeatured", Value: 1}},
				Options: options.Index().SetName("tenant_featured"),
			},
		},
		"inventory": {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "productId", Value: 1}},
				Options: options.Index().SetName("tenant_product_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "sku", Value: 1}},
				Options: options.Index().SetName("tenant_sku"),
			},
		},
		"carts": {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "userId", Value: 1}},
				Options: options.Index().SetName("tenant_user_unique").SetUnique(true),
			},
		},
		"orders": {
			{
				Keys:    bson.D{{Key: "orderNumber", Value: 1}},
				Options: options.Index().SetName("order_number_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("tenant_created"),
			},
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("tenant_user_created"),
			},
		},
		"leads": {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("tenant_created"),
			},
		},
		"store_configs": {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}},
				Options: options.Index().SetName("tenant_unique").SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			logger.L().Error("index creation failed",
				zap.String("collection", collection),
				zap.Error(err),
			)
			return err
		}
		logger.L().Debug("indexes ensured", zap.String("collection", collection))
	}

	return nil
}
