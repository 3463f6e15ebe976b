package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayKeyLayout is the calendar-day format used as a grouping and lookup
// key throughout the system. Tasks carry a day, never a time of day.
const DayKeyLayout = "2006-01-02"

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerKey    string             `bson:"owner_key" json:"owner_key"`
	Title       string             `bson:"title" json:"title"`
	Date        string             `bson:"date" json:"date"` // day-key, "YYYY-MM-DD"
	IsCompleted bool               `bson:"is_completed" json:"is_completed"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ValidDayKey reports whether s is a well-formed day-key.
func ValidDayKey(s string) bool {
	t, err := time.Parse(DayKeyLayout, s)
	return err == nil && t.Format(DayKeyLayout) == s
}
