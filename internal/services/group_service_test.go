package services

import (
	"testing"

	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/testutil"
)

func TestEnsureDefaultGroups(t *testing.T) {
	t.Run("creates_portfolio_and_ungrouped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		portfolio, ungrouped, err := svc.EnsureDefaultGroups(user.ID)
		testutil.AssertNoError(t, err)

		if portfolio.Name != "My Portfolio" {
			t.Errorf("expected portfolio name 'My Portfolio', got %s", portfolio.Name)
		}
		if portfolio.ParentID != nil {
			t.Errorf("expected portfolio to be a root group, got parent %v", *portfolio.ParentID)
		}
		if portfolio.Sort != 0 {
			t.Errorf("expected portfolio sort 0, got %d", portfolio.Sort)
		}
		if ungrouped.Name != "Ungrouped" {
			t.Errorf("expected ungrouped name 'Ungrouped', got %s", ungrouped.Name)
		}
		if ungrouped.ParentID == nil || *ungrouped.ParentID != portfolio.ID {
			t.Error("expected ungrouped to sit under the portfolio group")
		}
		if ungrouped.Sort != 1 {
			t.Errorf("expected ungrouped sort 1, got %d", ungrouped.Sort)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		first, _, err := svc.EnsureDefaultGroups(user.ID)
		testutil.AssertNoError(t, err)

		second, _, err := svc.EnsureDefaultGroups(user.ID)
		testutil.AssertNoError(t, err)

		if first.ID != second.ID {
			t.Errorf("expected the same portfolio group, got %s and %s", first.ID, second.ID)
		}

		var count int64
		if err := db.Model(&models.AssetGroup{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count groups: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 groups after repeated ensure, got %d", count)
		}
	})

	t.Run("scoped_per_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		p1, _, err := svc.EnsureDefaultGroups(user1.ID)
		testutil.AssertNoError(t, err)
		p2, _, err := svc.EnsureDefaultGroups(user2.ID)
		testutil.AssertNoError(t, err)

		if p1.ID == p2.ID {
			t.Error("expected each user to own a distinct portfolio group")
		}
	})
}

func TestCreateGroup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		group, err := svc.CreateGroup(user.ID, GroupInput{Name: "Real Estate", Color: "#ff0000"})
		testutil.AssertNoError(t, err)

		if group.ID == "" {
			t.Error("expected group ID to be set")
		}
		if group.Name != "Real Estate" {
			t.Errorf("expected name 'Real Estate', got %s", group.Name)
		}
		if group.UserID != user.ID {
			t.Errorf("expected user ID %s, got %s", user.ID, group.UserID)
		}
	})

	t.Run("with_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestGroup(t, db, user.ID)

		group, err := svc.CreateGroup(user.ID, GroupInput{Name: "Rental Units", ParentID: &parent.ID})
		testutil.AssertNoError(t, err)

		if group.ParentID == nil || *group.ParentID != parent.ID {
			t.Error("expected group to be created under the given parent")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(user.ID, GroupInput{Name: ""})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(user.ID, GroupInput{Name: "Savings"})
		testutil.AssertNoError(t, err)

		_, err = svc.CreateGroup(user.ID, GroupInput{Name: "Savings"})
		testutil.AssertAppError(t, err, "DUPLICATE_GROUP_NAME")
	})

	t.Run("same_name_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(user1.ID, GroupInput{Name: "Savings"})
		testutil.AssertNoError(t, err)

		_, err = svc.CreateGroup(user2.ID, GroupInput{Name: "Savings"})
		testutil.AssertNoError(t, err)
	})

	t.Run("foreign_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestGroup(t, db, other.ID)

		_, err := svc.CreateGroup(user.ID, GroupInput{Name: "Sneaky", ParentID: &foreign.ID})
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestGetUserGroups(t *testing.T) {
	t.Run("ordered_by_sort", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(user.ID, GroupInput{Name: "Second", Sort: 5})
		testutil.AssertNoError(t, err)
		_, err = svc.CreateGroup(user.ID, GroupInput{Name: "First", Sort: 1})
		testutil.AssertNoError(t, err)

		result, err := svc.GetUserGroups(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected 2 groups, got %d", result.TotalItems)
		}
		if result.Data[0].Name != "First" || result.Data[1].Name != "Second" {
			t.Errorf("expected groups ordered by sort, got %s, %s", result.Data[0].Name, result.Data[1].Name)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestGroup(t, db, other.ID)

		result, err := svc.GetUserGroups(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 0 {
			t.Errorf("expected 0 groups, got %d", result.TotalItems)
		}
	})
}

func TestGetGroupByID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)

		found, err := svc.GetGroupByID(user.ID, group.ID)
		testutil.AssertNoError(t, err)

		if found.ID != group.ID {
			t.Errorf("expected group %s, got %s", group.ID, found.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetGroupByID(user.ID, "missing")
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})

	t.Run("other_users_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, other.ID)

		_, err := svc.GetGroupByID(user.ID, group.ID)
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestUpdateGroup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)

		name := "Renamed"
		color := "#00ff00"
		_, err := svc.UpdateGroup(user.ID, group.ID, GroupUpdate{Name: &name, Color: &color})
		testutil.AssertNoError(t, err)

		found, err := svc.GetGroupByID(user.ID, group.ID)
		testutil.AssertNoError(t, err)
		if found.Name != "Renamed" {
			t.Errorf("expected name 'Renamed', got %s", found.Name)
		}
		if found.Color != "#00ff00" {
			t.Errorf("expected color '#00ff00', got %s", found.Color)
		}
	})

	t.Run("protected_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		_, ungrouped, err := svc.EnsureDefaultGroups(user.ID)
		testutil.AssertNoError(t, err)

		// Even a cosmetic change is rejected on a default group.
		color := "#123456"
		_, err = svc.UpdateGroup(user.ID, ungrouped.ID, GroupUpdate{Color: &color})
		testutil.AssertAppError(t, err, "GROUP_PROTECTED")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(user.ID, GroupInput{Name: "Taken"})
		testutil.AssertNoError(t, err)
		group, err := svc.CreateGroup(user.ID, GroupInput{Name: "Original"})
		testutil.AssertNoError(t, err)

		name := "Taken"
		_, err = svc.UpdateGroup(user.ID, group.ID, GroupUpdate{Name: &name})
		testutil.AssertAppError(t, err, "DUPLICATE_GROUP_NAME")
	})

	t.Run("reparent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		parent := testutil.CreateTestGroup(t, db, user.ID)

		_, err := svc.UpdateGroup(user.ID, group.ID, GroupUpdate{ParentID: &parent.ID})
		testutil.AssertNoError(t, err)

		found, err := svc.GetGroupByID(user.ID, group.ID)
		testutil.AssertNoError(t, err)
		if found.ParentID == nil || *found.ParentID != parent.ID {
			t.Error("expected group to be moved under the new parent")
		}
	})

	t.Run("reparent_to_root", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestGroup(t, db, user.ID)
		group := testutil.CreateTestGroupWithParent(t, db, user.ID, &parent.ID)

		empty := ""
		_, err := svc.UpdateGroup(user.ID, group.ID, GroupUpdate{ParentID: &empty})
		testutil.AssertNoError(t, err)

		found, err := svc.GetGroupByID(user.ID, group.ID)
		testutil.AssertNoError(t, err)
		if found.ParentID != nil {
			t.Errorf("expected group to become a root, still under %s", *found.ParentID)
		}
	})

	t.Run("reparent_to_self", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)

		_, err := svc.UpdateGroup(user.ID, group.ID, GroupUpdate{ParentID: &group.ID})
		testutil.AssertAppError(t, err, "GROUP_CYCLE")
	})

	t.Run("reparent_to_descendant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		root := testutil.CreateTestGroup(t, db, user.ID)
		child := testutil.CreateTestGroupWithParent(t, db, user.ID, &root.ID)
		grandchild := testutil.CreateTestGroupWithParent(t, db, user.ID, &child.ID)

		_, err := svc.UpdateGroup(user.ID, root.ID, GroupUpdate{ParentID: &grandchild.ID})
		testutil.AssertAppError(t, err, "GROUP_CYCLE")
	})

	t.Run("reparent_to_foreign_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		foreign := testutil.CreateTestGroup(t, db, other.ID)

		_, err := svc.UpdateGroup(user.ID, group.ID, GroupUpdate{ParentID: &foreign.ID})
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestDeleteGroup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)

		err := svc.DeleteGroup(user.ID, group.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetGroupByID(user.ID, group.ID)
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})

	t.Run("protected_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		portfolio, ungrouped, err := svc.EnsureDefaultGroups(user.ID)
		testutil.AssertNoError(t, err)

		err = svc.DeleteGroup(user.ID, portfolio.ID)
		testutil.AssertAppError(t, err, "GROUP_PROTECTED")
		err = svc.DeleteGroup(user.ID, ungrouped.ID)
		testutil.AssertAppError(t, err, "GROUP_PROTECTED")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteGroup(user.ID, "missing")
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})

	t.Run("cascades_subtree", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)

		root := testutil.CreateTestGroup(t, db, user.ID)
		child := testutil.CreateTestGroupWithParent(t, db, user.ID, &root.ID)
		sibling := testutil.CreateTestGroup(t, db, user.ID)

		security := testutil.CreateTestSecurity(t, db, user.ID, &child.ID)
		liability := testutil.CreateTestLiability(t, db, user.ID, &root.ID)
		kept := testutil.CreateTestSecurity(t, db, user.ID, &sibling.ID)

		tx := testutil.CreateTestTransaction(t, db, models.Linkage{Kind: models.LinkSecurity, ID: security.ID})

		err := svc.DeleteGroup(user.ID, root.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.AssetGroup{}).Where("id IN ?", []string{root.ID, child.ID}).Count(&count)
		if count != 0 {
			t.Errorf("expected subtree groups removed, %d remain", count)
		}
		db.Model(&models.Security{}).Where("id = ?", security.ID).Count(&count)
		if count != 0 {
			t.Error("expected security inside subtree to be removed")
		}
		db.Model(&models.Liability{}).Where("id = ?", liability.ID).Count(&count)
		if count != 0 {
			t.Error("expected liability inside subtree to be removed")
		}
		db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count)
		if count != 0 {
			t.Error("expected transactions of removed assets to be removed")
		}

		db.Model(&models.AssetGroup{}).Where("id = ?", sibling.ID).Count(&count)
		if count != 1 {
			t.Error("expected sibling group to survive")
		}
		db.Model(&models.Security{}).Where("id = ?", kept.ID).Count(&count)
		if count != 1 {
			t.Error("expected sibling security to survive")
		}
	})

	t.Run("other_users_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewGroupService(db, DefaultGroupConfig())
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, other.ID)

		err := svc.DeleteGroup(user.ID, group.ID)
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}
