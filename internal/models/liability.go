package models

import "github.com/shopspring/decimal"

// Liability is a debt (mortgage, loan, credit line) grouped into the
// same hierarchy as assets.
type Liability struct {
	Base
	UserID          string              `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentGroupID   *string             `gorm:"type:uuid;index" json:"parent_group_id,omitempty"`
	Name            string              `gorm:"not null;index" json:"name"`
	Color           string              `gorm:"size:7" json:"color,omitempty"`
	TargetWeighting decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"target_weighting"`
	MonthlyExpense  decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"monthly_expense"`
	Balance         decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"balance"`
	Sort            int                 `gorm:"default:0" json:"sort"`

	Transactions []Transaction `gorm:"foreignKey:LiabilityID" json:"transactions,omitempty"`
}
