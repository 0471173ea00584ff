package models

import "time"

// User is a registered account.
type User struct {
	UserID       string    `json:"user_id" badgerhold:"key"`
	Email        string    `json:"email" badgerhold:"index"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
