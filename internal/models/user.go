package models

// User represents the user model in the database. Authentication lives in
// the main API process; the scheduler only reads the flags that gate
// automated activity and email delivery.
type User struct {
	Base
	Email              string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	IsActive           bool   `gorm:"default:true" json:"is_active"`
	IsVerified         bool   `gorm:"default:false" json:"is_verified"`
	EmailNotifications bool   `gorm:"default:true" json:"email_notifications"`

	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Goals         []Goal         `gorm:"foreignKey:UserID" json:"goals,omitempty"`
	Achievements  []Achievement  `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// Eligible reports whether automated jobs should act on this user's records.
func (u *User) Eligible() bool {
	return u.IsActive && u.IsVerified
}
