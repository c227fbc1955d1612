package models

import (
	"networth/internal/uuid"

	"gorm.io/gorm"
)

// Security is a brokerage holding (stock, ETF, bond...).
type Security struct {
	AssetCore
	SymbolCore

	Transactions []Transaction `gorm:"foreignKey:SecurityID" json:"transactions,omitempty"`
}

// BeforeCreate generates an ID for manually created securities.
// Imported records arrive with the provider's id already set.
func (s *Security) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
