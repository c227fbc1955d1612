package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// otherAssetService handles non-symbol assets (property, vehicles, collectibles).
type otherAssetService struct {
	db     *gorm.DB
	groups GroupServicer
}

// NewOtherAssetService creates a new OtherAssetServicer.
func NewOtherAssetService(db *gorm.DB, groups GroupServicer) OtherAssetServicer {
	return &otherAssetService{db: db, groups: groups}
}

// CreateOtherAsset creates a new other asset.
func (s *otherAssetService) CreateOtherAsset(userID string, in OtherAssetInput) (*models.OtherAsset, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	parentID, err := resolveParentGroup(s.groups, userID, in.ParentGroupID)
	if err != nil {
		return nil, err
	}

	asset := &models.OtherAsset{
		AssetCore: models.AssetCore{
			UserID:          userID,
			ParentGroupID:   parentID,
			Name:            in.Name,
			TargetWeighting: in.TargetWeighting,
			Color:           in.Color,
			Sort:            in.Sort,
		},
		MonthlyIncome: roundNull(in.MonthlyIncome, 2),
		Value:         roundNull(in.Value, 2),
	}

	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// GetUserOtherAssets retrieves a paginated list of the user's other assets.
func (s *otherAssetService) GetUserOtherAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.OtherAsset], error) {
	page.Defaults()

	base := s.db.Model(&models.OtherAsset{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.OtherAsset
	if err := base.Order("sort").Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetOtherAssetByID retrieves an other asset by ID for a specific user.
func (s *otherAssetService) GetOtherAssetByID(userID, assetID string) (*models.OtherAsset, error) {
	var asset models.OtherAsset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOtherAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateOtherAsset applies partial updates to an other asset.
func (s *otherAssetService) UpdateOtherAsset(userID, assetID string, upd OtherAssetUpdate) (*models.OtherAsset, error) {
	asset, err := s.GetOtherAssetByID(userID, assetID)
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
	if upd.MonthlyIncome != nil {
		updates["monthly_income"] = roundNull(*upd.MonthlyIncome, 2)
	}
	if upd.Value != nil {
		updates["value"] = roundNull(*upd.Value, 2)
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
		if err := s.db.Model(asset).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return asset, nil
}

// DeleteOtherAsset deletes an other asset and its transactions.
func (s *otherAssetService) DeleteOtherAsset(userID, assetID string) error {
	asset, err := s.GetOtherAssetByID(userID, assetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("other_asset_id = ?", assetID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(asset).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
