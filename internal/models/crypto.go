package models

import (
	"networth/internal/uuid"

	"gorm.io/gorm"
)

// Crypto is a cryptocurrency holding. Same shape as Security but kept
// as its own table so provider imports and listings stay separate.
type Crypto struct {
	AssetCore
	SymbolCore
}

func (c *Crypto) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New()
	}
	return nil
}
