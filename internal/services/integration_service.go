package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/models"
)

// integrationService links external providers and syncs their data
// through the import service.
type integrationService struct {
	db        *gorm.DB
	plaid     PlaidProvider
	snaptrade SnapTradeProvider
	importer  ImportServicer
}

// NewIntegrationService creates a new IntegrationServicer. Either
// provider may be nil when its credentials are not configured; its
// operations then fail with PROVIDER_NOT_LINKED.
func NewIntegrationService(db *gorm.DB, plaid PlaidProvider, snaptrade SnapTradeProvider, importer ImportServicer) IntegrationServicer {
	return &integrationService{db: db, plaid: plaid, snaptrade: snaptrade, importer: importer}
}

// CreatePlaidLinkToken starts the Plaid Link flow for the user.
func (s *integrationService) CreatePlaidLinkToken(ctx context.Context, userID string) (string, error) {
	if s.plaid == nil {
		return "", apperrors.WithMessage(apperrors.ErrProviderNotLinked, "plaid is not configured")
	}
	return s.plaid.CreateLinkToken(ctx, userID)
}

// ConnectPlaid exchanges a Link public token and stores the resulting
// item credentials.
func (s *integrationService) ConnectPlaid(ctx context.Context, userID, publicToken string) error {
	if s.plaid == nil {
		return apperrors.WithMessage(apperrors.ErrProviderNotLinked, "plaid is not configured")
	}

	accessToken, itemID, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return err
	}

	item := &models.PlaidItem{
		UserID:      userID,
		AccessToken: accessToken,
		ItemID:      itemID,
	}
	if err := s.db.Create(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("plaid item linked", "user_id", userID, "item_id", itemID)
	return nil
}

// SyncPlaid pulls holdings for every linked Plaid item and imports
// them. Summaries across items are accumulated.
func (s *integrationService) SyncPlaid(ctx context.Context, userID string) (*ImportSummary, error) {
	if s.plaid == nil {
		return nil, apperrors.WithMessage(apperrors.ErrProviderNotLinked, "plaid is not configured")
	}

	var items []models.PlaidItem
	if err := s.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrProviderNotLinked
	}

	total := &ImportSummary{}
	for _, item := range items {
		payload, err := s.plaid.FetchHoldings(ctx, item.AccessToken)
		if err != nil {
			return nil, err
		}

		summary, err := s.importer.Import(userID, payload)
		if err != nil {
			return nil, err
		}
		total.Accounts += summary.Accounts
		total.Securities += summary.Securities
		total.Cryptos += summary.Cryptos
		total.Activities += summary.Activities
	}
	return total, nil
}

// ConnectSnapTrade registers the user with SnapTrade if needed and
// returns the connection portal URL.
func (s *integrationService) ConnectSnapTrade(ctx context.Context, userID string) (string, error) {
	if s.snaptrade == nil {
		return "", apperrors.WithMessage(apperrors.ErrProviderNotLinked, "snaptrade is not configured")
	}

	link, err := s.snapTradeLink(userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrProviderNotLinked) {
			return "", err
		}

		userSecret, err := s.snaptrade.RegisterUser(ctx, userID)
		if err != nil {
			return "", err
		}
		link = &models.SnapTradeLink{UserID: userID, UserSecret: userSecret}
		if err := s.db.Create(link).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Infow("snaptrade user registered", "user_id", userID)
	}

	return s.snaptrade.LoginURL(ctx, userID, link.UserSecret)
}

// SyncSnapTrade pulls the user's SnapTrade data and imports it.
func (s *integrationService) SyncSnapTrade(ctx context.Context, userID string) (*ImportSummary, error) {
	if s.snaptrade == nil {
		return nil, apperrors.WithMessage(apperrors.ErrProviderNotLinked, "snaptrade is not configured")
	}

	link, err := s.snapTradeLink(userID)
	if err != nil {
		return nil, err
	}

	payload, err := s.snaptrade.FetchHoldings(ctx, userID, link.UserSecret)
	if err != nil {
		return nil, err
	}
	return s.importer.Import(userID, payload)
}

func (s *integrationService) snapTradeLink(userID string) (*models.SnapTradeLink, error) {
	var link models.SnapTradeLink
	if err := s.db.Where("user_id = ?", userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProviderNotLinked
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}
