package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tenant is the root of the multi-tenant hierarchy. Tenants are never
// deleted, only deactivated.
type Tenant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	Domain     string             `bson:"domain,omitempty" json:"domain,omitempty"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	OwnerEmail string             `bson:"ownerEmail,omitempty" json:"ownerEmail,omitempty"`
	OwnerPhone string             `bson:"ownerPhone,omitempty" json:"ownerPhone,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
