package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
)

// TransactionType represents the kind of portfolio transaction.
type TransactionType string

const (
	TransactionBuy          TransactionType = "BUY"
	TransactionSell         TransactionType = "SELL"
	TransactionBuyToOpen    TransactionType = "BUY_TO_OPEN"
	TransactionBuyToClose   TransactionType = "BUY_TO_CLOSE"
	TransactionSellToOpen   TransactionType = "SELL_TO_OPEN"
	TransactionSellToClose  TransactionType = "SELL_TO_CLOSE"
	TransactionDividend     TransactionType = "DIVIDEND"
	TransactionInterest     TransactionType = "INTEREST"
	TransactionRentalIncome TransactionType = "RENTAL_INCOME"
	TransactionDeposit      TransactionType = "DEPOSIT"
	TransactionWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionContribution TransactionType = "CONTRIBUTION"
	TransactionTransfer     TransactionType = "TRANSFER"
	TransactionFee          TransactionType = "FEE"
	TransactionExpense      TransactionType = "EXPENSE"
	TransactionPayment      TransactionType = "PAYMENT"
	TransactionAppreciation TransactionType = "APPRECIATION"
	TransactionDepreciation TransactionType = "DEPRECIATION"
	TransactionOther        TransactionType = "OTHER"
)

// TransactionTypes lists every valid transaction type.
var TransactionTypes = []TransactionType{
	TransactionBuy, TransactionSell,
	TransactionBuyToOpen, TransactionBuyToClose,
	TransactionSellToOpen, TransactionSellToClose,
	TransactionDividend, TransactionInterest, TransactionRentalIncome,
	TransactionDeposit, TransactionWithdrawal, TransactionContribution,
	TransactionTransfer, TransactionFee, TransactionExpense,
	TransactionPayment, TransactionAppreciation, TransactionDepreciation,
	TransactionOther,
}

// LinkKind names the entity variant a transaction is linked to.
type LinkKind string

const (
	LinkSecurity   LinkKind = "security"
	LinkOtherAsset LinkKind = "other_asset"
	LinkLiability  LinkKind = "liability"
)

// Linkage is the exclusive association of a transaction with one
// underlying entity. Services accept a Linkage rather than raw foreign
// keys, so a transaction with zero or multiple links cannot be built
// through the public API; the stored columns are still revalidated in
// BeforeSave as a hard stop before any commit.
type Linkage struct {
	Kind LinkKind `json:"kind"`
	ID   string   `json:"id"`
}

// Transaction records activity against exactly one security, other
// asset, or liability. It carries no owner column: ownership is
// transitive through the linked entity.
type Transaction struct {
	Base
	SecurityID   *string `gorm:"size:200;index" json:"security_id,omitempty"`
	OtherAssetID *string `gorm:"size:200;index" json:"other_asset_id,omitempty"`
	LiabilityID  *string `gorm:"type:uuid;index" json:"liability_id,omitempty"`

	Type        TransactionType `gorm:"size:20;not null" json:"type"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,6);not null" json:"quantity"`
	Description string          `json:"description,omitempty"`

	// ExternalID is the provider's activity id for imported
	// transactions; imports upsert on it so re-syncs do not duplicate.
	ExternalID *string `gorm:"size:200;uniqueIndex" json:"-"`
}

// SetLink points the transaction at the entity named by link.
// Previously set links are cleared so the exclusivity invariant holds.
func (t *Transaction) SetLink(link Linkage) error {
	t.SecurityID, t.OtherAssetID, t.LiabilityID = nil, nil, nil
	if link.ID == "" {
		return apperrors.ErrInvalidLinkage
	}
	switch link.Kind {
	case LinkSecurity:
		t.SecurityID = &link.ID
	case LinkOtherAsset:
		t.OtherAssetID = &link.ID
	case LinkLiability:
		t.LiabilityID = &link.ID
	default:
		return apperrors.ErrInvalidLinkage
	}
	return nil
}

// Link returns the transaction's linkage, or false if the stored
// columns are in an invalid state.
func (t *Transaction) Link() (Linkage, bool) {
	if err := t.ValidateLinkage(); err != nil {
		return Linkage{}, false
	}
	switch {
	case t.SecurityID != nil:
		return Linkage{Kind: LinkSecurity, ID: *t.SecurityID}, true
	case t.OtherAssetID != nil:
		return Linkage{Kind: LinkOtherAsset, ID: *t.OtherAssetID}, true
	default:
		return Linkage{Kind: LinkLiability, ID: *t.LiabilityID}, true
	}
}

// ValidateLinkage fails unless exactly one of the three link columns is
// set.
func (t *Transaction) ValidateLinkage() error {
	links := 0
	for _, id := range []*string{t.SecurityID, t.OtherAssetID, t.LiabilityID} {
		if id != nil && *id != "" {
			links++
		}
	}
	if links != 1 {
		return apperrors.ErrInvalidLinkage
	}
	return nil
}

// BeforeSave rejects any write that would commit an invalid linkage.
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	return t.ValidateLinkage()
}
