package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/models"
)

// importService upserts provider-mapped records. Providers hand it an
// already-mapped payload; it owns nothing about wire formats.
type importService struct {
	db     *gorm.DB
	groups GroupServicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(db *gorm.DB, groups GroupServicer) ImportServicer {
	return &importService{db: db, groups: groups}
}

// Import upserts the payload's accounts, holdings, and activities in
// one transaction. Records are keyed on the provider's ids, so repeated
// syncs update in place. UserID and Source are forced server-side; a
// payload can never write into another user's data.
func (s *importService) Import(userID string, payload ImportPayload) (*ImportSummary, error) {
	if payload.Source == models.SourceManual {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "import source must name a provider")
	}

	_, ungrouped, err := s.groups.EnsureDefaultGroups(userID)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range payload.Accounts {
			account := &payload.Accounts[i]
			account.UserID = userID
			account.Source = payload.Source
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "buying_power", "account_value", "updated_at"}),
			}).Create(account).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			summary.Accounts++
		}

		for i := range payload.Securities {
			security := &payload.Securities[i]
			security.UserID = userID
			security.Source = payload.Source
			if security.ParentGroupID == nil {
				security.ParentGroupID = &ungrouped.ID
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "symbol", "shares_quantity", "equity", "account_id", "ghost", "updated_at"}),
			}).Create(security).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			summary.Securities++
		}

		for i := range payload.Cryptos {
			crypto := &payload.Cryptos[i]
			crypto.UserID = userID
			crypto.Source = payload.Source
			if crypto.ParentGroupID == nil {
				crypto.ParentGroupID = &ungrouped.ID
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "symbol", "shares_quantity", "equity", "account_id", "ghost", "updated_at"}),
			}).Create(crypto).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			summary.Cryptos++
		}

		imported, err := s.importActivities(tx, userID, payload.Activities)
		if err != nil {
			return err
		}
		summary.Activities = imported
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("provider import finished",
		"user_id", userID,
		"source", payload.Source,
		"accounts", summary.Accounts,
		"securities", summary.Securities,
		"cryptos", summary.Cryptos,
		"activities", summary.Activities,
	)
	return summary, nil
}

// importActivities records provider activities against their imported
// securities. Activities referencing a security outside the user's data
// are skipped rather than failing the whole sync.
func (s *importService) importActivities(tx *gorm.DB, userID string, activities []ImportedActivity) (int, error) {
	imported := 0
	for _, activity := range activities {
		if activity.ProviderID == "" || activity.SecurityID == "" {
			continue
		}

		var count int64
		if err := tx.Model(&models.Security{}).
			Where("id = ? AND user_id = ?", activity.SecurityID, userID).
			Count(&count).Error; err != nil {
			return imported, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			logger.Get().Warnw("skipping activity for unknown security",
				"user_id", userID,
				"security_id", activity.SecurityID,
				"external_id", activity.ProviderID,
			)
			continue
		}

		securityID := activity.SecurityID
		externalID := activity.ProviderID
		transaction := models.Transaction{
			SecurityID:  &securityID,
			Type:        activity.Type,
			Date:        activity.Date,
			Amount:      activity.Amount.Round(2),
			Quantity:    activity.Quantity.Round(6),
			Description: activity.Description,
			ExternalID:  &externalID,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "date", "amount", "quantity", "description", "updated_at"}),
		}).Create(&transaction).Error; err != nil {
			return imported, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		imported++
	}
	return imported, nil
}
