package model

import (
	"regexp"
	"time"
)

const DefaultAvatarURL = "https://assets.leetcode.com/users/default_avatar.jpg"

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a zero-padded 24-hour "HH:MM" string.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}

// User is keyed by lowercase email; there is no separate account id.
type User struct {
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	AvatarURL    string    `bson:"avatar_url" json:"avatar_url"`
	ReminderTime string    `bson:"reminder_time" json:"reminder_time"` // "HH:MM", empty disables
	ReportTime   string    `bson:"report_time" json:"report_time"`     // "HH:MM", empty disables
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// UserUpdate carries a partial preference update. Nil fields are left
// untouched by the store (merge, not replace).
type UserUpdate struct {
	Name         *string `json:"name,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
	ReportTime   *string `json:"report_time,omitempty"`
}
