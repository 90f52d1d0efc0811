package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inventory tracks stock one-to-one with a product. When TrackInventory
// is false, stock checks are skipped entirely.
type Inventory struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID          primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	ProductID         primitive.ObjectID `bson:"productId" json:"productId"`
	SKU               string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Stock             int                `bson:"stock" json:"stock"`
	LowStockThreshold int                `bson:"lowStockThreshold" json:"lowStockThreshold"`
	TrackInventory    bool               `bson:"trackInventory" json:"trackInventory"`
	AllowBackorder    bool               `bson:"allowBackorder" json:"allowBackorder"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
