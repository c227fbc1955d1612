package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// cryptoService handles crypto-holding business logic. Cryptos share
// the symbol-asset shape with securities but have no transaction
// history of their own.
type cryptoService struct {
	db     *gorm.DB
	groups GroupServicer
}

// NewCryptoService creates a new CryptoServicer.
func NewCryptoService(db *gorm.DB, groups GroupServicer) CryptoServicer {
	return &cryptoService{db: db, groups: groups}
}

// CreateCrypto creates a manually entered crypto holding.
func (s *cryptoService) CreateCrypto(userID string, in SymbolAssetInput) (*models.Crypto, error) {
	if in.Name == "" || in.Symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and symbol are required")
	}

	parentID, err := resolveParentGroup(s.groups, userID, in.ParentGroupID)
	if err != nil {
		return nil, err
	}

	crypto := &models.Crypto{
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

	if err := s.db.Create(crypto).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return crypto, nil
}

// GetUserCryptos retrieves a paginated list of the user's crypto holdings.
func (s *cryptoService) GetUserCryptos(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Crypto], error) {
	page.Defaults()

	base := s.db.Model(&models.Crypto{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cryptos []models.Crypto
	if err := base.Order("sort").Scopes(pagination.Paginate(page)).Find(&cryptos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cryptos, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCryptoByID retrieves a crypto holding by ID for a specific user.
func (s *cryptoService) GetCryptoByID(userID, cryptoID string) (*models.Crypto, error) {
	var crypto models.Crypto
	if err := s.db.Where("id = ? AND user_id = ?", cryptoID, userID).First(&crypto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCryptoNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &crypto, nil
}

// UpdateCrypto applies partial updates to a crypto holding.
func (s *cryptoService) UpdateCrypto(userID, cryptoID string, upd SymbolAssetUpdate) (*models.Crypto, error) {
	crypto, err := s.GetCryptoByID(userID, cryptoID)
	if err != nil {
		return nil, err
	}

	updates, err := symbolAssetUpdates(s.db, s.groups, userID, upd)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(crypto).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return crypto, nil
}

// DeleteCrypto deletes a crypto holding.
func (s *cryptoService) DeleteCrypto(userID, cryptoID string) error {
	crypto, err := s.GetCryptoByID(userID, cryptoID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(crypto).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
