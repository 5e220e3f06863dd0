package models

// AchievementType identifies the family of badge an achievement belongs to.
type AchievementType string

const (
	AchievementGoalCompleted AchievementType = "goal_completed"
	AchievementGoalMilestone AchievementType = "goal_milestone"
)

// Achievement is a badge awarded to a user. The (user, type, value)
// triple is unique and serves as the idempotency key: awarding the same
// triple twice persists a single row.
type Achievement struct {
	Base
	UserID string          `gorm:"type:uuid;not null;uniqueIndex:idx_achievements_key" json:"user_id"`
	Type   AchievementType `gorm:"not null;uniqueIndex:idx_achievements_key" json:"type"`
	Title  string          `gorm:"not null" json:"title"`
	Value  int64           `gorm:"not null;uniqueIndex:idx_achievements_key" json:"value"`
}
