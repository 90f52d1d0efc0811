package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LeadStatusPending    = "pending"
	LeadStatusContacted  = "contacted"
	LeadStatusInterested = "interested"
	LeadStatusSold       = "sold"
	LeadStatusCancelled  = "cancelled"
)

// Lead is a sales inquiry captured from the storefront. ProductTitle is
// denormalized so the lead survives catalog edits.
type Lead struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TenantID      primitive.ObjectID  `bson:"tenantId" json:"tenantId"`
	CustomerName  string              `bson:"customerName" json:"customerName"`
	CustomerPhone string              `bson:"customerPhone" json:"customerPhone"`
	CustomerEmail string              `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	ProductID     *primitive.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`
	ProductTitle  string              `bson:"productTitle,omitempty" json:"productTitle,omitempty"`
	Source        string              `bson:"source" json:"source"`
	Status        string              `bson:"status" json:"status"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
