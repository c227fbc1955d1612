package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"networth/internal/uuid"
)

// OtherAsset is a non-symbol asset such as real estate or a vehicle.
type OtherAsset struct {
	AssetCore
	MonthlyIncome decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"monthly_income"`
	Value         decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"value"`

	Transactions []Transaction `gorm:"foreignKey:OtherAssetID" json:"transactions,omitempty"`
}

func (o *OtherAsset) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New()
	}
	return nil
}
