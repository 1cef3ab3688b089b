package dto

// CreateRoleRequest represents the request body for creating a role.
type CreateRoleRequest struct {
	Name string `json:"name"`
}

// CreateCommunityRequest represents the request body for creating a community.
// The owner is always the authenticated caller.
type CreateCommunityRequest struct {
	Name string `json:"name"`
}

// AddMemberRequest represents the request body for adding a member.
type AddMemberRequest struct {
	Community string `json:"community"`
	User      string `json:"user"`
	Role      string `json:"role"`
}
