package user

import (
	"database/sql"
	"time"
)

// User represents a registered person in the system.
type User struct {
	TelegramID       int64
	Name             string
	Birthdate        time.Time
	LastNotifiedWeek sql.NullInt64  // highest elapsed week already notified; invalid means never
	Username         sql.NullString // optional Telegram handle, informational only
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NotificationWeekday is the weekday the user's weekly notification fires on,
// anchored to the day of week of their birthdate.
func (u *User) NotificationWeekday() time.Weekday {
	return u.Birthdate.Weekday()
}
