package models

// Severity classifies a notification for display purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is an append-only message surfaced to a user. RefType and
// RefID optionally point at the record the notification is about (a
// materialized transaction, a goal).
type Notification struct {
	Base
	UserID   string   `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    string   `gorm:"not null" json:"title"`
	Message  string   `gorm:"not null" json:"message"`
	Severity Severity `gorm:"not null;default:info" json:"severity"`
	Read     bool     `gorm:"default:false" json:"read"`
	RefType  string   `json:"ref_type,omitempty"`
	RefID    string   `gorm:"type:uuid" json:"ref_id,omitempty"`
}
