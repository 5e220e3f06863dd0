package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active, verified user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates an active, verified user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:              email,
		FirstName:          "Test",
		IsActive:           true,
		IsVerified:         true,
		EmailNotifications: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUnverifiedUser creates a user that automated jobs must skip.
func CreateTestUnverifiedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("unverified%d@test.com", nextID()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create unverified test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a concrete transaction of the given kind
// and amount (in cents), dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Category:    "general",
		Date:        time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurringTransaction creates a recurring template with the given
// interval, next occurrence, and optional end date.
func CreateTestRecurringTransaction(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind, interval recurrence.Interval, next time.Time, end *time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:         userID,
		Kind:           kind,
		Amount:         1599,
		Description:    fmt.Sprintf("Test Recurring %d", nextID()),
		Category:       "subscriptions",
		Date:           next,
		IsRecurring:    true,
		Interval:       interval,
		NextOccurrence: &next,
		EndDate:        end,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a goal with the given target and saved amounts
// (in cents) and target date, without a contribution plan.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target, saved int64, targetDate time.Time) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: target,
		SavedAmount:  saved,
		TargetDate:   targetDate,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestGoalWithPlan creates a goal with an active automatic
// contribution plan in the given frequency bucket.
func CreateTestGoalWithPlan(t *testing.T, db *gorm.DB, userID string, target, saved, contribution int64, frequency recurrence.Frequency) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:                userID,
		Name:                  fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:          target,
		SavedAmount:           saved,
		TargetDate:            time.Now().AddDate(1, 0, 0),
		Contribution:          contribution,
		ContributionFrequency: frequency,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal with plan: %v", err)
	}
	return goal
}
