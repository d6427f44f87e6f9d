// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type AuditLog struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	UserName   string    `bson:"userName,omitempty" json:"userName,omitempty"`
	Action     string    `bson:"action" json:"action"` // e.g. "asset_create", "asset_transfer", "asset_restore"
	EntityType string    `bson:"entityType" json:"entityType"`
	EntityID   string    `bson:"entityId,omitempty" json:"entityId,omitempty"`
	Details    bson.M    `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
