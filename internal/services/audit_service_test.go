package services

import (
	"testing"

	"budgetly/internal/models"
	"budgetly/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_entry_with_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		userID := testutil.NewUserID()

		svc.Log(userID, AuditActionSetBudget, "account", "acc-1", "10.0.0.1", map[string]interface{}{"budget": 500})

		var entries []models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", userID).Find(&entries).Error)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		e := entries[0]
		if e.Action != AuditActionSetBudget || e.ResourceID != "acc-1" || e.IPAddress != "10.0.0.1" {
			t.Errorf("unexpected entry %+v", e)
		}
		if e.Changes != `{"budget":500}` {
			t.Errorf("unexpected changes %q", e.Changes)
		}
	})

	t.Run("nil_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		userID := testutil.NewUserID()

		svc.Log(userID, AuditActionDeleteAccount, "account", "acc-2", "", nil)

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", userID).First(&entry).Error)
		if entry.Changes != "" {
			t.Errorf("expected empty changes, got %q", entry.Changes)
		}
	})
}
