package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"networth/internal/models"
	"networth/internal/testutil"
)

func newTestCryptoService(db *gorm.DB) CryptoServicer {
	return NewCryptoService(db, NewGroupService(db, DefaultGroupConfig()))
}

func TestCreateCrypto(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)

		crypto, err := svc.CreateCrypto(user.ID, SymbolAssetInput{
			Name:           "Bitcoin",
			Symbol:         "BTC",
			SharesQuantity: decimal.NewNullDecimal(decimal.RequireFromString("0.12345678")),
			Equity:         decimal.NewNullDecimal(decimal.RequireFromString("8000.505")),
		})
		testutil.AssertNoError(t, err)

		if crypto.Source != models.SourceManual {
			t.Errorf("expected manual source, got %s", crypto.Source)
		}
		if !crypto.SharesQuantity.Decimal.Equal(decimal.RequireFromString("0.123457")) {
			t.Errorf("expected quantity rounded to 6 places, got %s", crypto.SharesQuantity.Decimal)
		}
		if !crypto.Equity.Decimal.Equal(decimal.RequireFromString("8000.51")) {
			t.Errorf("expected equity rounded to 2 places, got %s", crypto.Equity.Decimal)
		}
	})

	t.Run("defaults_to_ungrouped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)

		crypto, err := svc.CreateCrypto(user.ID, SymbolAssetInput{Name: "Ethereum", Symbol: "ETH"})
		testutil.AssertNoError(t, err)

		if crypto.ParentGroupID == nil {
			t.Fatal("expected crypto to have a parent group")
		}
		var parent models.AssetGroup
		if err := db.First(&parent, "id = ?", *crypto.ParentGroupID).Error; err != nil {
			t.Fatalf("failed to load parent group: %v", err)
		}
		if parent.Name != "Ungrouped" || parent.UserID != user.ID {
			t.Errorf("expected the user's Ungrouped group, got %s owned by %s", parent.Name, parent.UserID)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCrypto(user.ID, SymbolAssetInput{Name: "Bitcoin"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCrypto(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)
		crypto := testutil.CreateTestCrypto(t, db, user.ID, nil)

		name := "Wrapped Bitcoin"
		ghost := true
		updated, err := svc.UpdateCrypto(user.ID, crypto.ID, SymbolAssetUpdate{
			Name:  &name,
			Ghost: &ghost,
		})
		testutil.AssertNoError(t, err)

		var stored models.Crypto
		if err := db.First(&stored, "id = ?", updated.ID).Error; err != nil {
			t.Fatalf("failed to reload crypto: %v", err)
		}
		if stored.Name != "Wrapped Bitcoin" {
			t.Errorf("expected Wrapped Bitcoin, got %s", stored.Name)
		}
		if !stored.Ghost {
			t.Error("expected ghost flag to be set")
		}
	})

	t.Run("other_users_crypto", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithEmail(t, db, "other@example.com")
		crypto := testutil.CreateTestCrypto(t, db, other.ID, nil)

		name := "Stolen"
		_, err := svc.UpdateCrypto(user.ID, crypto.ID, SymbolAssetUpdate{Name: &name})
		testutil.AssertAppError(t, err, "CRYPTO_NOT_FOUND")
	})
}

func TestDeleteCrypto(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)
		crypto := testutil.CreateTestCrypto(t, db, user.ID, nil)

		testutil.AssertNoError(t, svc.DeleteCrypto(user.ID, crypto.ID))

		_, err := svc.GetCryptoByID(user.ID, crypto.ID)
		testutil.AssertAppError(t, err, "CRYPTO_NOT_FOUND")
	})

	t.Run("other_users_crypto", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestCryptoService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithEmail(t, db, "other@example.com")
		crypto := testutil.CreateTestCrypto(t, db, other.ID, nil)

		err := svc.DeleteCrypto(user.ID, crypto.ID)
		testutil.AssertAppError(t, err, "CRYPTO_NOT_FOUND")
	})
}
