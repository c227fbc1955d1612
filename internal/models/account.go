package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"networth/internal/uuid"
)

// Account is a brokerage or bank account. The primary key is the
// provider's account id for imported accounts so re-imports upsert
// instead of duplicating.
type Account struct {
	ID           string              `gorm:"size:200;primaryKey" json:"id"`
	Source       Source              `gorm:"size:20;not null" json:"source"`
	UserID       string              `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string              `gorm:"not null" json:"name"`
	BuyingPower  decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"buying_power"`
	AccountValue decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"account_value"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Securities []Security `gorm:"foreignKey:AccountID" json:"securities,omitempty"`
	Cryptos    []Crypto   `gorm:"foreignKey:AccountID" json:"cryptos,omitempty"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New()
	}
	return nil
}
