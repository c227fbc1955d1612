package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// liabilityService handles liability business logic. Liabilities join
// the same group hierarchy as assets, including the default-parent
// behavior on create.
type liabilityService struct {
	db     *gorm.DB
	groups GroupServicer
}

// NewLiabilityService creates a new LiabilityServicer.
func NewLiabilityService(db *gorm.DB, groups GroupServicer) LiabilityServicer {
	return &liabilityService{db: db, groups: groups}
}

// CreateLiability creates a new liability.
func (s *liabilityService) CreateLiability(userID string, in LiabilityInput) (*models.Liability, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	parentID, err := resolveParentGroup(s.groups, userID, in.ParentGroupID)
	if err != nil {
		return nil, err
	}

	liability := &models.Liability{
		UserID:          userID,
		ParentGroupID:   parentID,
		Name:            in.Name,
		Color:           in.Color,
		TargetWeighting: in.TargetWeighting,
		MonthlyExpense:  roundNull(in.MonthlyExpense, 2),
		Balance:         roundNull(in.Balance, 2),
		Sort:            in.Sort,
	}

	if err := s.db.Create(liability).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return liability, nil
}

// GetUserLiabilities retrieves a paginated list of the user's liabilities.
func (s *liabilityService) GetUserLiabilities(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Liability], error) {
	page.Defaults()

	base := s.db.Model(&models.Liability{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var liabilities []models.Liability
	if err := base.Order("sort").Scopes(pagination.Paginate(page)).Find(&liabilities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(liabilities, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetLiabilityByID retrieves a liability by ID for a specific user.
func (s *liabilityService) GetLiabilityByID(userID, liabilityID string) (*models.Liability, error) {
	var liability models.Liability
	if err := s.db.Where("id = ? AND user_id = ?", liabilityID, userID).First(&liability).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLiabilityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &liability, nil
}

// UpdateLiability applies partial updates to a liability.
func (s *liabilityService) UpdateLiability(userID, liabilityID string, upd LiabilityUpdate) (*models.Liability, error) {
	liability, err := s.GetLiabilityByID(userID, liabilityID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
		}
		updates["name"] = *upd.Name
	}
	if upd.ParentGroupID != nil {
		parentID, err := resolveParentGroup(s.groups, userID, upd.ParentGroupID)
		if err != nil {
			return nil, err
		}
		updates["parent_group_id"] = parentID
	}
	if upd.MonthlyExpense != nil {
		updates["monthly_expense"] = roundNull(*upd.MonthlyExpense, 2)
	}
	if upd.Balance != nil {
		updates["balance"] = roundNull(*upd.Balance, 2)
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

	if len(updates) > 0 {
		if err := s.db.Model(liability).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return liability, nil
}

// DeleteLiability deletes a liability and its transactions.
func (s *liabilityService) DeleteLiability(userID, liabilityID string) error {
	liability, err := s.GetLiabilityByID(userID, liabilityID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("liability_id = ?", liabilityID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(liability).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
