package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// securityService handles security-holding business logic.
type securityService struct {
	db     *gorm.DB
	groups GroupServicer
}

// NewSecurityService creates a new SecurityServicer.
func NewSecurityService(db *gorm.DB, groups GroupServicer) SecurityServicer {
	return &securityService{db: db, groups: groups}
}

// CreateSecurity creates a manually entered security holding. Without
// an explicit parent group the holding lands in the owner's Ungrouped
// group.
func (s *securityService) CreateSecurity(userID string, in SymbolAssetInput) (*models.Security, error) {
	if in.Name == "" || in.Symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and symbol are required")
	}

	parentID, err := resolveParentGroup(s.groups, userID, in.ParentGroupID)
	if err != nil {
		return nil, err
	}

	if in.AccountID != nil {
		var count int64
		if err := s.db.Model(&models.Account{}).
			Where("id = ? AND user_id = ?", *in.AccountID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrAccountNotFound
		}
	}

	security := &models.Security{
		AssetCore: models.AssetCore{
			UserID:          userID,
			ParentGroupID:   parentID,
			Name:            in.Name,
			TargetWeighting: in.TargetWeighting,
			Color:           in.Color,
			Sort:            in.Sort,
		},
		SymbolCore: models.SymbolCore{
			Source:         models.SourceManual,
			AccountID:      in.AccountID,
			Symbol:         in.Symbol,
			SharesQuantity: roundNull(in.SharesQuantity, 6),
			Equity:         roundNull(in.Equity, 2),
		},
	}

	if err := s.db.Create(security).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return security, nil
}

// GetUserSecurities retrieves a paginated list of the user's securities.
func (s *securityService) GetUserSecurities(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error) {
	page.Defaults()

	base := s.db.Model(&models.Security{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var securities []models.Security
	if err := base.Order("sort").Scopes(pagination.Paginate(page)).Find(&securities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(securities, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSecurityByID retrieves a security by ID for a specific user.
func (s *securityService) GetSecurityByID(userID, securityID string) (*models.Security, error) {
	var security models.Security
	if err := s.db.Where("id = ? AND user_id = ?", securityID, userID).First(&security).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSecurityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &security, nil
}

// UpdateSecurity applies partial updates to a security holding.
func (s *securityService) UpdateSecurity(userID, securityID string, upd SymbolAssetUpdate) (*models.Security, error) {
	security, err := s.GetSecurityByID(userID, securityID)
	if err != nil {
		return nil, err
	}

	updates, err := symbolAssetUpdates(s.db, s.groups, userID, upd)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(security).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return security, nil
}

// DeleteSecurity deletes a security and its transactions.
func (s *securityService) DeleteSecurity(userID, securityID string) error {
	security, err := s.GetSecurityByID(userID, securityID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("security_id = ?", securityID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(security).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// symbolAssetUpdates builds the column map shared by security and
// crypto updates, validating parent group and account ownership.
func symbolAssetUpdates(db *gorm.DB, groups GroupServicer, userID string, upd SymbolAssetUpdate) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
		}
		updates["name"] = *upd.Name
	}
	if upd.Symbol != nil {
		if *upd.Symbol == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
		}
		updates["symbol"] = *upd.Symbol
	}
	if upd.ParentGroupID != nil {
		parentID, err := resolveParentGroup(groups, userID, upd.ParentGroupID)
		if err != nil {
			return nil, err
		}
		updates["parent_group_id"] = parentID
	}
	if upd.AccountID != nil {
		var count int64
		if err := db.Model(&models.Account{}).
			Where("id = ? AND user_id = ?", *upd.AccountID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrAccountNotFound
		}
		updates["account_id"] = *upd.AccountID
	}
	if upd.SharesQuantity != nil {
		updates["shares_quantity"] = roundNull(*upd.SharesQuantity, 6)
	}
	if upd.Equity != nil {
		updates["equity"] = roundNull(*upd.Equity, 2)
	}
	if upd.TargetWeighting != nil {
		updates["target_weighting"] = *upd.TargetWeighting
	}
	if upd.Color != nil {
		updates["color"] = *upd.Color
	}
	if upd.Sort != nil {
		updates["sort"] = *upd.Sort
	}
	if upd.Ghost != nil {
		updates["ghost"] = *upd.Ghost
	}

	return updates, nil
}
