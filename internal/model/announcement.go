package model

import "time"

// Announcement is a broadcast message shown on the dashboard.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	AuthorID  string    `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity is a single entry in the team activity feed.
type Activity struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	// Action is a short verb phrase ("completed", "commented", ...).
	Action string `json:"action"`

	// TargetType and TargetID identify what the action applied to
	// (e.g. a task or a team).
	TargetType string `json:"targetType,omitempty"`
	TargetID   string `json:"targetId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
