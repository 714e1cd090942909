package model

// Membership roles within a team.
const (
	RoleMember = "Member"
	RoleAdmin  = "Admin"
	RoleLead   = "Lead"
)

// TeamMember links exactly one user to exactly one team with a role.
type TeamMember struct {
	ID     string `json:"id"`
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`

	// Role is one of the Role* constants.
	Role string `json:"role"`
}

// Team is a named group of members. Member counts are derived from the
// member list, never stored separately.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department,omitempty"`

	// LeadID optionally references the team lead's user id.
	LeadID string `json:"leadId,omitempty"`

	Members []TeamMember `json:"members,omitempty"`
}

// MemberCount returns the derived number of members on the team.
func (t Team) MemberCount() int {
	return len(t.Members)
}

// MemberIndex builds a membership-id -> user-id index across teams,
// used to resolve tasks assigned through a team membership.
func MemberIndex(teams []Team) map[string]string {
	idx := make(map[string]string)
	for _, team := range teams {
		for _, m := range team.Members {
			idx[m.ID] = m.UserID
		}
	}
	return idx
}
