package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"networth/internal/models"
	"networth/internal/testutil"
)

func newTestLiabilityService(db *gorm.DB) LiabilityServicer {
	return NewLiabilityService(db, NewGroupService(db, DefaultGroupConfig()))
}

func TestCreateLiability(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)

		liability, err := svc.CreateLiability(user.ID, LiabilityInput{
			Name:           "Mortgage",
			ParentGroupID:  &group.ID,
			MonthlyExpense: decimal.NewNullDecimal(decimal.RequireFromString("1200.005")),
			Balance:        decimal.NewNullDecimal(decimal.NewFromInt(300000)),
		})
		testutil.AssertNoError(t, err)

		if liability.ParentGroupID == nil || *liability.ParentGroupID != group.ID {
			t.Error("expected liability parented in the given group")
		}
		if !liability.MonthlyExpense.Decimal.Equal(decimal.RequireFromString("1200.01")) {
			t.Errorf("expected monthly expense rounded to 2 places, got %s", liability.MonthlyExpense.Decimal)
		}
	})

	t.Run("defaults_to_ungrouped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)

		liability, err := svc.CreateLiability(user.ID, LiabilityInput{Name: "Car Loan"})
		testutil.AssertNoError(t, err)

		if liability.ParentGroupID == nil {
			t.Fatal("expected liability to have a parent group")
		}
		var parent models.AssetGroup
		if err := db.First(&parent, "id = ?", *liability.ParentGroupID).Error; err != nil {
			t.Fatalf("failed to load parent group: %v", err)
		}
		if parent.Name != "Ungrouped" || parent.UserID != user.ID {
			t.Errorf("expected the user's Ungrouped group, got %s owned by %s", parent.Name, parent.UserID)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateLiability(user.ID, LiabilityInput{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_parent_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestGroup(t, db, other.ID)

		_, err := svc.CreateLiability(user.ID, LiabilityInput{Name: "Mortgage", ParentGroupID: &foreign.ID})
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestUpdateLiability(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		liability := testutil.CreateTestLiability(t, db, user.ID, &group.ID)

		balance := decimal.NewNullDecimal(decimal.NewFromInt(4500))
		_, err := svc.UpdateLiability(user.ID, liability.ID, LiabilityUpdate{Balance: &balance})
		testutil.AssertNoError(t, err)

		found, err := svc.GetLiabilityByID(user.ID, liability.ID)
		testutil.AssertNoError(t, err)
		if !found.Balance.Decimal.Equal(decimal.NewFromInt(4500)) {
			t.Errorf("expected balance 4500, got %s", found.Balance.Decimal)
		}
	})

	t.Run("other_users_liability", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, other.ID)
		liability := testutil.CreateTestLiability(t, db, other.ID, &group.ID)

		name := "hijack"
		_, err := svc.UpdateLiability(user.ID, liability.ID, LiabilityUpdate{Name: &name})
		testutil.AssertAppError(t, err, "LIABILITY_NOT_FOUND")
	})
}

func TestDeleteLiability(t *testing.T) {
	t.Run("cascades_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := newTestLiabilityService(db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		liability := testutil.CreateTestLiability(t, db, user.ID, &group.ID)
		tx := testutil.CreateTestTransaction(t, db, models.Linkage{Kind: models.LinkLiability, ID: liability.ID})

		err := svc.DeleteLiability(user.ID, liability.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Liability{}).Where("id = ?", liability.ID).Count(&count)
		if count != 0 {
			t.Error("expected liability to be removed")
		}
		db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count)
		if count != 0 {
			t.Error("expected linked transactions to be removed")
		}
	})
}
