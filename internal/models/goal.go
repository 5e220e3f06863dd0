package models

import (
	"time"

	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
)

// Goal represents a savings goal. Amounts are integer cents. A goal with
// Contribution > 0 has an active automatic contribution plan in the
// bucket named by ContributionFrequency.
type Goal struct {
	Base
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string    `gorm:"not null" json:"name"`
	TargetAmount int64     `gorm:"type:bigint;not null" json:"target_amount"`
	SavedAmount  int64     `gorm:"type:bigint;default:0" json:"saved_amount"`
	TargetDate   time.Time `gorm:"not null" json:"target_date"`

	// Automatic contribution plan
	Contribution          int64                `gorm:"type:bigint;default:0" json:"contribution"`
	ContributionFrequency recurrence.Frequency `json:"contribution_frequency,omitempty"`

	// Lifecycle notification stamps. Set exactly once per transition so
	// re-runs and missed runs cannot duplicate or drop the notice.
	ExpiryNotifiedAt  *time.Time `json:"expiry_notified_at,omitempty"`
	OutcomeNotifiedAt *time.Time `json:"outcome_notified_at,omitempty"`

	Contributions []GoalContribution `gorm:"foreignKey:GoalID" json:"contributions,omitempty"`
	User          User               `gorm:"foreignKey:UserID" json:"-"`
}

// Completed reports whether the goal has reached its target.
func (g *Goal) Completed() bool {
	return g.SavedAmount >= g.TargetAmount
}

// Remaining returns the amount still needed to reach the target,
// never negative.
func (g *Goal) Remaining() int64 {
	if r := g.TargetAmount - g.SavedAmount; r > 0 {
		return r
	}
	return 0
}

// GoalContribution is one deposit into a goal, manual or automatic.
type GoalContribution struct {
	Base
	GoalID      string    `gorm:"type:uuid;not null;index" json:"goal_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `json:"description"`
}
