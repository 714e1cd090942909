package model

import (
	"strings"
	"unicode"
)

// Skill is a named proficiency on a user profile.
type Skill struct {
	Name string `json:"name"`

	// Level is a 0-100 proficiency rating.
	Level int `json:"level"`
}

// User is a dashboard user. Read-mostly from the client's perspective.
type User struct {
	ID string `json:"id"`

	Name  string `json:"name"`
	Email string `json:"email,omitempty"`

	// Role is the user's job title or role label.
	Role string `json:"role,omitempty"`

	// AvatarURL points at the user's avatar image. May be empty, in
	// which case the UI falls back to Initials.
	AvatarURL string `json:"avatarUrl,omitempty"`

	Skills []Skill `json:"skills,omitempty"`
}

// Initials derives a one-or-two letter fallback label from the user's
// name, used when no avatar is available. "Ada Lovelace" becomes "AL",
// "ada" becomes "A", and an empty name yields "?".
func (u User) Initials() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return "?"
	}

	var b strings.Builder
	for i, f := range fields {
		if i >= 2 {
			break
		}
		r := []rune(f)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
