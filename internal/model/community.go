package model

import (
	"strings"
	"time"
)

// Community is a named group owned by a single user.
type Community struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommunityDetail is a community joined with its owner summary.
type CommunityDetail struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Owner     UserSummary `json:"owner"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Slugify derives the community slug from its name.
func Slugify(name string) string {
	return strings.ToLower(name)
}
