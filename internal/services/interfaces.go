package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/models"
	"networth/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, preferredName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RequestEmailCode(userID string) error
	ConfirmEmail(userID, code string) error
	RequestSMSCode(userID, phoneNumber string) error
	ConfirmSMS(userID, code string) error
}

// GroupServicer defines the contract for the asset-group hierarchy.
// EnsureDefaultGroups is idempotent and race-safe; the rest is
// owner-scoped CRUD with the two default groups protected from update
// and delete.
type GroupServicer interface {
	EnsureDefaultGroups(userID string) (portfolio, ungrouped *models.AssetGroup, err error)
	CreateGroup(userID string, in GroupInput) (*models.AssetGroup, error)
	GetUserGroups(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AssetGroup], error)
	GetGroupByID(userID, groupID string) (*models.AssetGroup, error)
	UpdateGroup(userID, groupID string, upd GroupUpdate) (*models.AssetGroup, error)
	DeleteGroup(userID, groupID string) error
}

// GroupInput holds the caller-settable fields of a new asset group.
type GroupInput struct {
	Name            string
	ParentID        *string
	Color           string
	TargetWeighting decimal.NullDecimal
	Description     string
	Sort            int
}

// GroupUpdate holds partial updates for an asset group. Nil fields are
// left unchanged; a ParentID pointing at the empty string clears the
// parent, making the group a root.
type GroupUpdate struct {
	Name            *string
	ParentID        *string
	Color           *string
	TargetWeighting *decimal.NullDecimal
	Description     *string
	Sort            *int
}

// SymbolAssetInput holds the caller-settable fields of a security or
// crypto holding.
type SymbolAssetInput struct {
	Name            string
	Symbol          string
	ParentGroupID   *string
	AccountID       *string
	SharesQuantity  decimal.NullDecimal
	Equity          decimal.NullDecimal
	TargetWeighting decimal.NullDecimal
	Color           string
	Sort            int
}

// SymbolAssetUpdate holds partial updates for a security or crypto
// holding. Nil fields are left unchanged.
type SymbolAssetUpdate struct {
	Name            *string
	Symbol          *string
	ParentGroupID   *string
	AccountID       *string
	SharesQuantity  *decimal.NullDecimal
	Equity          *decimal.NullDecimal
	TargetWeighting *decimal.NullDecimal
	Color           *string
	Sort            *int
	Ghost           *bool
}

// SecurityServicer defines the contract for security holdings.
type SecurityServicer interface {
	CreateSecurity(userID string, in SymbolAssetInput) (*models.Security, error)
	GetUserSecurities(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error)
	GetSecurityByID(userID, securityID string) (*models.Security, error)
	UpdateSecurity(userID, securityID string, upd SymbolAssetUpdate) (*models.Security, error)
	DeleteSecurity(userID, securityID string) error
}

// CryptoServicer defines the contract for crypto holdings.
type CryptoServicer interface {
	CreateCrypto(userID string, in SymbolAssetInput) (*models.Crypto, error)
	GetUserCryptos(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Crypto], error)
	GetCryptoByID(userID, cryptoID string) (*models.Crypto, error)
	UpdateCrypto(userID, cryptoID string, upd SymbolAssetUpdate) (*models.Crypto, error)
	DeleteCrypto(userID, cryptoID string) error
}

// OtherAssetInput holds the caller-settable fields of an other asset.
type OtherAssetInput struct {
	Name            string
	ParentGroupID   *string
	MonthlyIncome   decimal.NullDecimal
	Value           decimal.NullDecimal
	TargetWeighting decimal.NullDecimal
	Color           string
	Sort            int
}

// OtherAssetUpdate holds partial updates for an other asset.
type OtherAssetUpdate struct {
	Name            *string
	ParentGroupID   *string
	MonthlyIncome   *decimal.NullDecimal
	Value           *decimal.NullDecimal
	TargetWeighting *decimal.NullDecimal
	Color           *string
	Sort            *int
}

// OtherAssetServicer defines the contract for non-symbol assets.
type OtherAssetServicer interface {
	CreateOtherAsset(userID string, in OtherAssetInput) (*models.OtherAsset, error)
	GetUserOtherAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.OtherAsset], error)
	GetOtherAssetByID(userID, assetID string) (*models.OtherAsset, error)
	UpdateOtherAsset(userID, assetID string, upd OtherAssetUpdate) (*models.OtherAsset, error)
	DeleteOtherAsset(userID, assetID string) error
}

// LiabilityInput holds the caller-settable fields of a liability.
type LiabilityInput struct {
	Name            string
	ParentGroupID   *string
	MonthlyExpense  decimal.NullDecimal
	Balance         decimal.NullDecimal
	TargetWeighting decimal.NullDecimal
	Color           string
	Sort            int
}

// LiabilityUpdate holds partial updates for a liability.
type LiabilityUpdate struct {
	Name            *string
	ParentGroupID   *string
	MonthlyExpense  *decimal.NullDecimal
	Balance         *decimal.NullDecimal
	TargetWeighting *decimal.NullDecimal
	Color           *string
	Sort            *int
}

// LiabilityServicer defines the contract for liabilities.
type LiabilityServicer interface {
	CreateLiability(userID string, in LiabilityInput) (*models.Liability, error)
	GetUserLiabilities(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Liability], error)
	GetLiabilityByID(userID, liabilityID string) (*models.Liability, error)
	UpdateLiability(userID, liabilityID string, upd LiabilityUpdate) (*models.Liability, error)
	DeleteLiability(userID, liabilityID string) error
}

// AccountInput holds the caller-settable fields of a manual account.
type AccountInput struct {
	Name         string
	BuyingPower  decimal.NullDecimal
	AccountValue decimal.NullDecimal
}

// AccountUpdate holds partial updates for an account.
type AccountUpdate struct {
	Name         *string
	BuyingPower  *decimal.NullDecimal
	AccountValue *decimal.NullDecimal
}

// AccountServicer defines the contract for accounts.
type AccountServicer interface {
	CreateAccount(userID string, in AccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, upd AccountUpdate) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
}

// TransactionInput holds the caller-settable fields of a transaction.
type TransactionInput struct {
	Link        models.Linkage
	Type        models.TransactionType
	Date        time.Time
	Amount      decimal.Decimal
	Quantity    decimal.Decimal
	Description string
}

// TransactionUpdate holds partial updates for a transaction. The
// linkage itself is immutable once recorded; move history by deleting
// and recreating.
type TransactionUpdate struct {
	Type        *models.TransactionType
	Date        *time.Time
	Amount      *decimal.Decimal
	Quantity    *decimal.Decimal
	Description *string
}

// TransactionServicer defines the contract for transactions.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetLinkedTransactions(userID string, link models.Linkage, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// ImportedActivity is one provider activity row, already mapped to the
// local shape and linked to an imported security by provider id.
type ImportedActivity struct {
	ProviderID  string
	SecurityID  string
	Type        models.TransactionType
	Date        time.Time
	Amount      decimal.Decimal
	Quantity    decimal.Decimal
	Description string
}

// ImportPayload carries provider-mapped records ready for upsert.
type ImportPayload struct {
	Source     models.Source
	Accounts   []models.Account
	Securities []models.Security
	Cryptos    []models.Crypto
	Activities []ImportedActivity
}

// ImportSummary reports how many records an import touched.
type ImportSummary struct {
	Accounts   int `json:"accounts"`
	Securities int `json:"securities"`
	Cryptos    int `json:"cryptos"`
	Activities int `json:"activities"`
}

// ImportServicer defines the contract for provider imports.
type ImportServicer interface {
	Import(userID string, payload ImportPayload) (*ImportSummary, error)
}

// PlaidProvider is the slice of the Plaid client the integration
// service needs.
type PlaidProvider interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	FetchHoldings(ctx context.Context, accessToken string) (ImportPayload, error)
}

// SnapTradeProvider is the slice of the SnapTrade client the
// integration service needs.
type SnapTradeProvider interface {
	RegisterUser(ctx context.Context, userID string) (userSecret string, err error)
	LoginURL(ctx context.Context, userID, userSecret string) (string, error)
	FetchHoldings(ctx context.Context, userID, userSecret string) (ImportPayload, error)
}

// IntegrationServicer defines the contract for linking external
// providers and syncing their data.
type IntegrationServicer interface {
	CreatePlaidLinkToken(ctx context.Context, userID string) (string, error)
	ConnectPlaid(ctx context.Context, userID, publicToken string) error
	SyncPlaid(ctx context.Context, userID string) (*ImportSummary, error)
	ConnectSnapTrade(ctx context.Context, userID string) (redirectURI string, err error)
	SyncSnapTrade(ctx context.Context, userID string) (*ImportSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

// CodeSender delivers verification codes. Implementations are external
// collaborators (email, SMS); the core only hands them a code and never
// fails the surrounding operation on delivery errors.
type CodeSender interface {
	SendEmailCode(email, code string) error
	SendSMSCode(phoneNumber, code string) error
}
