package models

import "time"

// User represents a learner reaching the drill through Telegram or the HTTP API
type User struct {
	ID                   int64     `json:"id" db:"telegram_id"` // Telegram user ID
	Username             string    `json:"username" db:"username"`
	FirstName            string    `json:"first_name" db:"first_name"`
	Theme                string    `json:"theme" db:"theme"`         // Preferred story theme
	SubTheme             string    `json:"sub_theme" db:"sub_theme"` // Preferred story setting within the theme
	NotificationsEnabled bool      `json:"notifications_enabled" db:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}
