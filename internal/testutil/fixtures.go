package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"networth/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGroup creates an asset group with a unique name.
func CreateTestGroup(t *testing.T, db *gorm.DB, userID string) *models.AssetGroup {
	t.Helper()
	return CreateTestGroupWithParent(t, db, userID, nil)
}

// CreateTestGroupWithParent creates an asset group under the given parent.
func CreateTestGroupWithParent(t *testing.T, db *gorm.DB, userID string, parentID *string) *models.AssetGroup {
	t.Helper()

	group := &models.AssetGroup{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Group %d", nextID()),
		ParentID: parentID,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestAccount creates a manual account.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		Source: models.SourceManual,
		UserID: userID,
		Name:   fmt.Sprintf("Test Account %d", nextID()),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestSecurity creates a security holding in the given group.
func CreateTestSecurity(t *testing.T, db *gorm.DB, userID string, parentGroupID *string) *models.Security {
	t.Helper()

	security := &models.Security{}
	security.UserID = userID
	security.ParentGroupID = parentGroupID
	security.Name = fmt.Sprintf("Test Security %d", nextID())
	security.Source = models.SourceManual
	security.Symbol = "TST"
	security.SharesQuantity = decimal.NewNullDecimal(decimal.NewFromInt(10))
	security.Equity = decimal.NewNullDecimal(decimal.NewFromInt(1000))
	if err := db.Create(security).Error; err != nil {
		t.Fatalf("failed to create test security: %v", err)
	}
	return security
}

// CreateTestCrypto creates a crypto holding in the given group.
func CreateTestCrypto(t *testing.T, db *gorm.DB, userID string, parentGroupID *string) *models.Crypto {
	t.Helper()

	crypto := &models.Crypto{}
	crypto.UserID = userID
	crypto.ParentGroupID = parentGroupID
	crypto.Name = fmt.Sprintf("Test Crypto %d", nextID())
	crypto.Source = models.SourceManual
	crypto.Symbol = "BTC"
	if err := db.Create(crypto).Error; err != nil {
		t.Fatalf("failed to create test crypto: %v", err)
	}
	return crypto
}

// CreateTestOtherAsset creates an other asset in the given group.
func CreateTestOtherAsset(t *testing.T, db *gorm.DB, userID string, parentGroupID *string) *models.OtherAsset {
	t.Helper()

	asset := &models.OtherAsset{}
	asset.UserID = userID
	asset.ParentGroupID = parentGroupID
	asset.Name = fmt.Sprintf("Test Other Asset %d", nextID())
	asset.Value = decimal.NewNullDecimal(decimal.NewFromInt(250000))
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test other asset: %v", err)
	}
	return asset
}

// CreateTestLiability creates a liability in the given group.
func CreateTestLiability(t *testing.T, db *gorm.DB, userID string, parentGroupID *string) *models.Liability {
	t.Helper()

	liability := &models.Liability{
		UserID:        userID,
		ParentGroupID: parentGroupID,
		Name:          fmt.Sprintf("Test Liability %d", nextID()),
		Balance:       decimal.NewNullDecimal(decimal.NewFromInt(5000)),
	}
	if err := db.Create(liability).Error; err != nil {
		t.Fatalf("failed to create test liability: %v", err)
	}
	return liability
}

// CreateTestTransaction creates a transaction linked to the given entity.
func CreateTestTransaction(t *testing.T, db *gorm.DB, link models.Linkage) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		Type:     models.TransactionBuy,
		Date:     time.Now(),
		Amount:   decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(1),
	}
	if err := transaction.SetLink(link); err != nil {
		t.Fatalf("failed to set transaction link: %v", err)
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}
