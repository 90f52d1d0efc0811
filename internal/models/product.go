package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Slug is unique per tenant. Deletion is a
// soft delete via IsActive.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID       primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice float64            `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Category       string             `bson:"category" json:"category"`
	Images         []string           `bson:"images" json:"images"`
	Videos         []string           `bson:"videos,omitempty" json:"videos,omitempty"`
	Slug           string             `bson:"slug" json:"slug"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	IsFeatured     bool               `bson:"isFeatured" json:"isFeatured"`
	Specifications map[string]string  `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Tags           []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
