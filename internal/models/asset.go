package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetCore is the shape shared by every asset variant (securities,
// cryptos, other assets). The ID is the provider's identifier for
// imported records and a generated UUID for manual ones, so there is no
// Base embedding here.
//
// An asset created without a parent group lands in the owner's
// "Ungrouped" group; services resolve that before the row is written so
// an asset is never observably parentless.
type AssetCore struct {
	ID              string              `gorm:"size:200;primaryKey" json:"id"`
	UserID          string              `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentGroupID   *string             `gorm:"type:uuid;index" json:"parent_group_id,omitempty"`
	Name            string              `gorm:"not null" json:"name"`
	TargetWeighting decimal.NullDecimal `gorm:"type:decimal(5,4)" json:"target_weighting"`
	Color           string              `gorm:"size:7" json:"color,omitempty"`
	Sort            int                 `gorm:"default:0" json:"sort"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// SymbolCore extends AssetCore for ticker-bearing assets. Ghost hides a
// holding from portfolio views without deleting its history.
type SymbolCore struct {
	Source         Source              `gorm:"size:20;not null;default:'MANUAL'" json:"source"`
	Ghost          bool                `gorm:"default:false" json:"ghost"`
	AccountID      *string             `gorm:"size:200;index" json:"account_id,omitempty"`
	Symbol         string              `gorm:"size:10;index" json:"symbol"`
	SharesQuantity decimal.NullDecimal `gorm:"type:decimal(15,6)" json:"shares_quantity"`
	Equity         decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"equity"`
}
