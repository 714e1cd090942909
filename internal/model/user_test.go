package model

import "testing"

func TestInitials(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "AL"},
		{"ada", "A"},
		{"Grace Brewster Murray Hopper", "GB"},
		{"  spaced   out  ", "SO"},
		{"", "?"},
	}

	for _, tc := range cases {
		got := User{Name: tc.name}.Initials()
		if got != tc.want {
			t.Errorf("Initials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	if _, ok := ParseDueDate("2026-08-28"); !ok {
		t.Error("date-only due date should parse")
	}
	if _, ok := ParseDueDate("2026-08-28T10:00:00Z"); !ok {
		t.Error("RFC3339 due date should parse")
	}
	if _, ok := ParseDueDate("soon"); ok {
		t.Error("garbage due date should not parse")
	}
	if _, ok := ParseDueDate(""); ok {
		t.Error("empty due date should not parse")
	}
}

func TestAssignedUser(t *testing.T) {
	members := map[string]string{"m1": "u9"}

	if got := (Task{AssigneeID: "u1"}).AssignedUser(members); got != "u1" {
		t.Errorf("direct assignee = %q, want u1", got)
	}
	if got := (Task{MemberID: "m1"}).AssignedUser(members); got != "u9" {
		t.Errorf("membership assignee = %q, want u9", got)
	}
	if got := (Task{MemberID: "mx"}).AssignedUser(members); got != "" {
		t.Errorf("unresolvable membership = %q, want empty", got)
	}
	if got := (Task{}).AssignedUser(nil); got != "" {
		t.Errorf("unassigned = %q, want empty", got)
	}
}
