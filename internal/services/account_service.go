package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// accountService handles account business logic. Manual accounts get
// generated ids; imported ones keep the provider's account id.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a manually entered account.
func (s *accountService) CreateAccount(userID string, in AccountInput) (*models.Account, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.Account{
		Source:       models.SourceManual,
		UserID:       userID,
		Name:         in.Name,
		BuyingPower:  roundNull(in.BuyingPower, 2),
		AccountValue: roundNull(in.AccountValue, 2),
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetUserAccounts retrieves a paginated list of the user's accounts.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount applies partial updates to an account.
func (s *accountService) UpdateAccount(userID, accountID string, upd AccountUpdate) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
		}
		updates["name"] = *upd.Name
	}
	if upd.BuyingPower != nil {
		updates["buying_power"] = roundNull(*upd.BuyingPower, 2)
	}
	if upd.AccountValue != nil {
		updates["account_value"] = roundNull(*upd.AccountValue, 2)
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return account, nil
}

// DeleteAccount deletes an account together with the holdings held
// under it and their transaction history.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var securityIDs []string
		if err := tx.Model(&models.Security{}).Where("account_id = ?", accountID).
			Pluck("id", &securityIDs).Error; err != nil {
			return err
		}
		if len(securityIDs) > 0 {
			if err := tx.Where("security_id IN ?", securityIDs).
				Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", securityIDs).
				Delete(&models.Security{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", accountID).
			Delete(&models.Crypto{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
