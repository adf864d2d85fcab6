package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ResourceType string

const (
	ResourceCourse        ResourceType = "course"
	ResourceDocumentation ResourceType = "documentation"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchaseRefunded  PurchaseStatus = "refunded"
)

// Purchase is one row of the purchase ledger. A partial unique index on
// (userId, resourceId) where status == completed guarantees at most one
// completed purchase per user and resource.
type Purchase struct {
	ID              bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          bson.ObjectID  `bson:"userId" json:"userId"`
	ResourceID      bson.ObjectID  `bson:"resourceId" json:"resourceId"`
	ResourceType    ResourceType   `bson:"resourceType" json:"resourceType"`
	Amount          int64          `bson:"amount" json:"amount"` // smallest currency unit
	Currency        string         `bson:"currency" json:"currency"`
	StripeSessionID string         `bson:"stripeSessionId" json:"stripeSessionId"`
	Status          PurchaseStatus `bson:"status" json:"status"`
	PurchaseDate    time.Time      `bson:"purchaseDate" json:"purchaseDate"`
}
