package models

import (
	"fmt"
	"time"

	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
)

// TransactionKind represents the kind of transaction
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Transaction represents a financial transaction. Amounts are integer
// cents. A transaction is either concrete (dated, no recurrence columns)
// or a recurring template whose occurrences the processor materializes;
// the recurrence columns are only meaningful while IsRecurring is set.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind        TransactionKind `gorm:"not null" json:"kind"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `gorm:"not null" json:"date"`

	// Recurrence state
	IsRecurring    bool                `gorm:"default:false;index" json:"is_recurring"`
	Interval       recurrence.Interval `json:"interval,omitempty"`
	NextOccurrence *time.Time          `json:"next_occurrence,omitempty"`
	EndDate        *time.Time          `json:"end_date,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Recurring reports whether the transaction currently carries an active
// recurrence schedule.
func (t *Transaction) Recurring() bool {
	return t.IsRecurring && t.NextOccurrence != nil
}

// Schedule returns the transaction's active recurrence as a typed value.
// It fails when the transaction is not recurring or the stored interval
// is malformed.
func (t *Transaction) Schedule() (recurrence.Schedule, error) {
	if !t.Recurring() {
		return recurrence.Schedule{}, fmt.Errorf("transaction %s has no active recurrence", t.ID)
	}
	if !t.Interval.Valid() {
		return recurrence.Schedule{}, fmt.Errorf("transaction %s has malformed interval %q", t.ID, t.Interval)
	}
	return recurrence.Schedule{
		Interval: t.Interval,
		Next:     *t.NextOccurrence,
		End:      t.EndDate,
	}, nil
}

// SetSchedule writes an advanced schedule back onto the transaction.
func (t *Transaction) SetSchedule(s recurrence.Schedule) {
	next := s.Next
	t.IsRecurring = true
	t.Interval = s.Interval
	t.NextOccurrence = &next
	t.EndDate = s.End
}

// Terminate clears all recurrence state. This is the one-way transition
// back to a plain transaction; nothing sets the columns again afterwards.
func (t *Transaction) Terminate() {
	t.IsRecurring = false
	t.Interval = ""
	t.NextOccurrence = nil
	t.EndDate = nil
}

// Materialize returns the concrete occurrence of this recurring template
// for the given day, sharing amount, description, and category.
func (t *Transaction) Materialize(date time.Time) *Transaction {
	return &Transaction{
		UserID:      t.UserID,
		Kind:        t.Kind,
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		Date:        date,
	}
}
