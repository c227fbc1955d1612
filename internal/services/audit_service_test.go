package services

import (
	"encoding/json"
	"testing"

	"networth/internal/models"
	"networth/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_entry_with_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Log(user.ID, "CREATE_GROUP", "asset_group", "group-1", "127.0.0.1", map[string]interface{}{
			"name": "Savings",
		})

		var entry models.AuditLog
		if err := db.First(&entry, "user_id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed to load audit entry: %v", err)
		}
		if entry.Action != "CREATE_GROUP" || entry.ResourceType != "asset_group" {
			t.Errorf("unexpected entry %s/%s", entry.Action, entry.ResourceType)
		}

		var changes map[string]interface{}
		if err := json.Unmarshal([]byte(entry.Changes), &changes); err != nil {
			t.Fatalf("changes are not valid JSON: %v", err)
		}
		if changes["name"] != "Savings" {
			t.Errorf("expected name change to be recorded, got %v", changes)
		}
	})

	t.Run("nil_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Log(user.ID, "DELETE_GROUP", "asset_group", "group-1", "127.0.0.1", nil)

		var entry models.AuditLog
		if err := db.First(&entry, "user_id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed to load audit entry: %v", err)
		}
		if entry.Changes != "" {
			t.Errorf("expected empty changes, got %q", entry.Changes)
		}
	})
}
