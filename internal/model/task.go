package model

import "time"

// Normalized status values as the backend reports them.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Priority values as the backend reports them.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a work item owned by the backend. The client only ever holds
// a time-bounded cached copy of it.
type Task struct {
	// ID is the backend identifier for this task.
	ID string `json:"id"`

	// Title is the human-readable summary.
	Title string `json:"title"`

	// Description is the full body text.
	Description string `json:"description"`

	// Status is one of the Status* constants. Unrecognized values are
	// preserved as received.
	Status string `json:"status"`

	// Priority is one of the Priority* constants. Unrecognized values
	// are preserved as received.
	Priority string `json:"priority"`

	// DueDate is the due date exactly as the backend sent it. It is
	// parsed lazily where ordering matters so one malformed record
	// cannot poison a whole collection.
	DueDate string `json:"dueDate,omitempty"`

	// AssigneeID references a user directly. Mutually exclusive with
	// MemberID.
	AssigneeID string `json:"assigneeId,omitempty"`

	// MemberID references a team membership. Mutually exclusive with
	// AssigneeID.
	MemberID string `json:"memberId,omitempty"`

	// Tags is an unordered label set; duplicates carry no meaning.
	Tags []string `json:"tags,omitempty"`

	// Progress is a 0-100 completion percentage. The backend keeps it
	// consistent with Status; the client displays both as received and
	// never re-derives one from the other.
	Progress int `json:"progress"`

	// CreatedBy is the user id of the task creator.
	CreatedBy string `json:"createdBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AssignedUser resolves the task's assignee to a user id. Membership
// references are resolved through the given membership->user index.
// Returns "" when the task is unassigned or the reference does not
// resolve.
func (t Task) AssignedUser(members map[string]string) string {
	if t.AssigneeID != "" {
		return t.AssigneeID
	}
	if t.MemberID != "" {
		return members[t.MemberID]
	}
	return ""
}

// dueDateLayouts are tried in order when parsing a task due date.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02",
}

// ParseDueDate parses a task due date string. The second return value
// reports whether the date was parsable.
func ParseDueDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
