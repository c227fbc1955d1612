package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/testutil"
)

func newTestOtherAssetService(db *gorm.DB) OtherAssetServicer {
	return NewOtherAssetService(db, NewGroupService(db, DefaultGroupConfig()))
}

func TestCreateOtherAsset(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)

		asset, err := svc.CreateOtherAsset(user.ID, OtherAssetInput{
			Name:          "Rental Property",
			ParentGroupID: &group.ID,
			MonthlyIncome: decimal.NewNullDecimal(decimal.RequireFromString("1500.005")),
			Value:         decimal.NewNullDecimal(decimal.NewFromInt(450000)),
		})
		testutil.AssertNoError(t, err)

		if asset.ParentGroupID == nil || *asset.ParentGroupID != group.ID {
			t.Error("expected asset parented in the given group")
		}
		if !asset.MonthlyIncome.Decimal.Equal(decimal.RequireFromString("1500.01")) {
			t.Errorf("expected monthly income rounded to 2 places, got %s", asset.MonthlyIncome.Decimal)
		}
	})

	t.Run("defaults_to_ungrouped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)

		asset, err := svc.CreateOtherAsset(user.ID, OtherAssetInput{Name: "Vintage Car"})
		testutil.AssertNoError(t, err)

		if asset.ParentGroupID == nil {
			t.Fatal("expected asset to have a parent group")
		}
		var parent models.AssetGroup
		if err := db.First(&parent, "id = ?", *asset.ParentGroupID).Error; err != nil {
			t.Fatalf("failed to load parent group: %v", err)
		}
		if parent.Name != "Ungrouped" || parent.UserID != user.ID {
			t.Errorf("expected the user's Ungrouped group, got %s owned by %s", parent.Name, parent.UserID)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateOtherAsset(user.ID, OtherAssetInput{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_parent_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithEmail(t, db, "other@example.com")
		foreignGroup := testutil.CreateTestGroup(t, db, other.ID)

		_, err := svc.CreateOtherAsset(user.ID, OtherAssetInput{
			Name:          "Boat",
			ParentGroupID: &foreignGroup.ID,
		})
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestUpdateOtherAsset(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestOtherAsset(t, db, user.ID, nil)

		name := "Lake House"
		value := decimal.NewNullDecimal(decimal.RequireFromString("620000.455"))
		updated, err := svc.UpdateOtherAsset(user.ID, asset.ID, OtherAssetUpdate{
			Name:  &name,
			Value: &value,
		})
		testutil.AssertNoError(t, err)

		var stored models.OtherAsset
		if err := db.First(&stored, "id = ?", updated.ID).Error; err != nil {
			t.Fatalf("failed to reload asset: %v", err)
		}
		if stored.Name != "Lake House" {
			t.Errorf("expected Lake House, got %s", stored.Name)
		}
		if !stored.Value.Decimal.Equal(decimal.RequireFromString("620000.46")) {
			t.Errorf("expected value rounded to 2 places, got %s", stored.Value.Decimal)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestOtherAsset(t, db, user.ID, nil)

		empty := ""
		_, err := svc.UpdateOtherAsset(user.ID, asset.ID, OtherAssetUpdate{Name: &empty})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithEmail(t, db, "other@example.com")
		asset := testutil.CreateTestOtherAsset(t, db, other.ID, nil)

		name := "Stolen"
		_, err := svc.UpdateOtherAsset(user.ID, asset.ID, OtherAssetUpdate{Name: &name})
		testutil.AssertAppError(t, err, "OTHER_ASSET_NOT_FOUND")
	})
}

func TestDeleteOtherAsset(t *testing.T) {
	t.Run("cascades_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestOtherAsset(t, db, user.ID, nil)
		txn := testutil.CreateTestTransaction(t, db, models.Linkage{Kind: models.LinkOtherAsset, ID: asset.ID})

		testutil.AssertNoError(t, svc.DeleteOtherAsset(user.ID, asset.ID))

		var count int64
		db.Model(&models.Transaction{}).Where("id = ?", txn.ID).Count(&count)
		if count != 0 {
			t.Error("expected linked transaction to be deleted with the asset")
		}
	})

	t.Run("other_users_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithEmail(t, db, "other@example.com")
		asset := testutil.CreateTestOtherAsset(t, db, other.ID, nil)

		err := svc.DeleteOtherAsset(user.ID, asset.ID)
		testutil.AssertAppError(t, err, "OTHER_ASSET_NOT_FOUND")
	})
}

func TestGetUserOtherAssets(t *testing.T) {
	t.Run("scoped_per_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestOtherAssetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithEmail(t, db, "other@example.com")
		testutil.CreateTestOtherAsset(t, db, user.ID, nil)
		testutil.CreateTestOtherAsset(t, db, other.ID, nil)

		result, err := svc.GetUserOtherAssets(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 1 {
			t.Fatalf("expected 1 asset, got %d", len(result.Data))
		}
		if result.Data[0].UserID != user.ID {
			t.Error("expected only the user's own assets")
		}
	})
}
