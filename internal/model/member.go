package model

import "time"

// Member records one user's role within one community.
// A user holds at most one member row per community.
type Member struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Community string    `json:"community"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberDetail is a member joined with user and role summaries.
type MemberDetail struct {
	ID        string      `json:"id"`
	Community string      `json:"community"`
	User      UserSummary `json:"user"`
	Role      RoleSummary `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
