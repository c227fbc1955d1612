package models

import (
	"time"

	"networth/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Deletes here are hard
// deletes: the asset-group hierarchy cascades on removal and must not
// leave soft-deleted orphans behind.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// Source tags where a record originated: manual entry or one of the
// linked data providers.
type Source string

const (
	SourceManual    Source = "MANUAL"
	SourceSnapTrade Source = "SNAPTRADE"
	SourcePlaid     Source = "PLAID"
)
