package model

import (
	"fmt"
	"time"
)

// Notification is an in-app alert raised when a todo's reminder comes due.
type Notification struct {
	ID      string    `json:"id"`
	TodoID  string    `json:"todo_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
}

// ReminderNotificationID derives the dedup ID of a reminder instant.
func ReminderNotificationID(todoID string, reminder time.Time) string {
	return fmt.Sprintf("%s-%d", todoID, reminder.UnixMilli())
}
