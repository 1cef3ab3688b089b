// Package model defines domain entities for the application.
package model

import "time"

// User is an account that can own communities and hold memberships.
// Users are created outside the HTTP surface and never change afterwards.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"` // Opaque credential, stored as given
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the trimmed user shape joined into listings.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary returns the trimmed representation of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}
