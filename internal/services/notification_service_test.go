package services

import (
	"testing"
	"time"

	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/pagination"
	"github.com/devxpawan/smart-spend-sub002/internal/testutil"
)

func TestNotifyRef(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	notification, err := svc.NotifyRef(user.ID, "Goal completed", "You reached your target.", models.SeveritySuccess, "goal", "goal-ref-id")
	testutil.AssertNoError(t, err)

	var stored models.Notification
	testutil.AssertNoError(t, db.First(&stored, "id = ?", notification.ID).Error)
	if stored.UserID != user.ID || stored.Title != "Goal completed" || stored.Severity != models.SeveritySuccess {
		t.Errorf("unexpected stored notification %+v", stored)
	}
	if stored.RefType != "goal" || stored.RefID != "goal-ref-id" {
		t.Errorf("expected reference preserved, got %q/%q", stored.RefType, stored.RefID)
	}
	if stored.Read {
		t.Error("new notifications must start unread")
	}
}

func TestGetUserNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	titles := []string{"first", "second", "third"}
	for i, title := range titles {
		notification, err := svc.Notify(user.ID, title, "message", models.SeverityInfo)
		testutil.AssertNoError(t, err)
		// Space out timestamps so the ordering assertion is deterministic.
		testutil.AssertNoError(t, db.Model(notification).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
	_, err := svc.Notify(other.ID, "not yours", "message", models.SeverityInfo)
	testutil.AssertNoError(t, err)

	page, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 {
		t.Errorf("expected 3 total items, got %d", page.TotalItems)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page.Data))
	}
	if page.Data[0].Title != "third" || page.Data[1].Title != "second" {
		t.Errorf("expected newest first, got %q then %q", page.Data[0].Title, page.Data[1].Title)
	}
}

func TestMarkRead(t *testing.T) {
	t.Run("marks_own_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		notification, err := svc.Notify(user.ID, "title", "message", models.SeverityInfo)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.MarkRead(user.ID, notification.ID))

		var stored models.Notification
		testutil.AssertNoError(t, db.First(&stored, "id = ?", notification.ID).Error)
		if !stored.Read {
			t.Error("expected notification marked read")
		}

		// Marking again is a no-op.
		testutil.AssertNoError(t, svc.MarkRead(user.ID, notification.ID))
	})

	t.Run("rejects_other_users_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)

		notification, err := svc.Notify(owner.ID, "title", "message", models.SeverityInfo)
		testutil.AssertNoError(t, err)

		err = svc.MarkRead(intruder.ID, notification.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")

		var stored models.Notification
		testutil.AssertNoError(t, db.First(&stored, "id = ?", notification.ID).Error)
		if stored.Read {
			t.Error("notification must stay unread")
		}
	})
}
