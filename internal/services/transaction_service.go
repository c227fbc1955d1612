package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// transactionService handles transaction business logic. Transactions
// have no owner column of their own; every operation authorizes
// through the linked security, other asset, or liability.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a transaction against exactly one linked
// entity. The linkage and the linked entity's ownership are validated
// before anything is written.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if !validTransactionType(in.Type) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported transaction type")
	}

	if err := s.checkLinkOwner(userID, in.Link); err != nil {
		return nil, err
	}

	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	transaction := &models.Transaction{
		Type:        in.Type,
		Date:        in.Date,
		Amount:      in.Amount.Round(2),
		Quantity:    in.Quantity.Round(6),
		Description: in.Description,
	}
	if err := transaction.SetLink(in.Link); err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		if errors.Is(err, apperrors.ErrInvalidLinkage) {
			return nil, apperrors.ErrInvalidLinkage
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetLinkedTransactions retrieves a paginated list of transactions for
// one linked entity, newest first.
func (s *transactionService) GetLinkedTransactions(userID string, link models.Linkage, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if err := s.checkLinkOwner(userID, link); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	switch link.Kind {
	case models.LinkSecurity:
		base = base.Where("security_id = ?", link.ID)
	case models.LinkOtherAsset:
		base = base.Where("other_asset_id = ?", link.ID)
	case models.LinkLiability:
		base = base.Where("liability_id = ?", link.ID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction, authorizing through its
// linked entity. A transaction reachable only through another user's
// entities is reported as not found.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	link, ok := transaction.Link()
	if !ok {
		return nil, apperrors.ErrInvalidLinkage
	}
	if err := s.checkLinkOwner(userID, link); err != nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	return &transaction, nil
}

// UpdateTransaction applies partial updates. The linkage is immutable.
func (s *transactionService) UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if upd.Type != nil {
		if !validTransactionType(*upd.Type) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported transaction type")
		}
		updates["type"] = *upd.Type
	}
	if upd.Date != nil {
		updates["date"] = *upd.Date
	}
	if upd.Amount != nil {
		updates["amount"] = upd.Amount.Round(2)
	}
	if upd.Quantity != nil {
		updates["quantity"] = upd.Quantity.Round(6)
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return transaction, nil
}

// DeleteTransaction deletes a transaction the user can reach.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// checkLinkOwner verifies the linked entity exists and belongs to the
// user. The per-entity not-found sentinel is returned either way, so
// cross-owner probes learn nothing.
func (s *transactionService) checkLinkOwner(userID string, link models.Linkage) error {
	if link.ID == "" {
		return apperrors.ErrInvalidLinkage
	}

	var (
		model    interface{}
		notFound *apperrors.AppError
	)
	switch link.Kind {
	case models.LinkSecurity:
		model, notFound = &models.Security{}, apperrors.ErrSecurityNotFound
	case models.LinkOtherAsset:
		model, notFound = &models.OtherAsset{}, apperrors.ErrOtherAssetNotFound
	case models.LinkLiability:
		model, notFound = &models.Liability{}, apperrors.ErrLiabilityNotFound
	default:
		return apperrors.ErrInvalidLinkage
	}

	var count int64
	if err := s.db.Model(model).
		Where("id = ? AND user_id = ?", link.ID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}

func validTransactionType(t models.TransactionType) bool {
	for _, known := range models.TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}
