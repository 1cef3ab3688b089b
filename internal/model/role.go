package model

import "time"

// Well-known role names seeded at startup.
const (
	RoleCommunityAdmin  = "Community Admin"
	RoleCommunityMember = "Community Member"
)

// DefaultRoleNames lists the roles that must exist before the service accepts traffic.
var DefaultRoleNames = []string{RoleCommunityAdmin, RoleCommunityMember}

// Role is a named permission level a member holds within a community.
// Names are not unique.
type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleSummary is the trimmed role shape joined into member listings.
type RoleSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
