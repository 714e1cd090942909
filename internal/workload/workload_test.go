package workload

import (
	"testing"

	"github.com/hnguyen/teamboard/internal/model"
)

func TestComputeUnknownUntilBothInputsLoaded(t *testing.T) {
	users := []model.User{{ID: "1"}}
	tasks := []model.Task{{ID: "t1", AssigneeID: "1"}}

	if _, ok := Compute(nil, tasks, nil); ok {
		t.Error("missing user list should yield unknown, not entries")
	}
	if _, ok := Compute(users, nil, nil); ok {
		t.Error("missing task view should yield unknown, not entries")
	}

	// Loaded-but-empty inputs are a real (all-zero) answer.
	entries, ok := Compute(users, []model.Task{}, nil)
	if !ok {
		t.Fatal("empty task list should compute")
	}
	if len(entries) != 1 || entries[0].Score != 0 || entries[0].TaskCount != 0 {
		t.Errorf("entries = %+v, want one zero-workload entry", entries)
	}
}

func TestComputeWeightsAndBonus(t *testing.T) {
	users := []model.User{{ID: "1"}}
	tasks := []model.Task{
		{ID: "a", AssigneeID: "1", Priority: model.PriorityHigh, Status: model.StatusInProgress},
		{ID: "b", AssigneeID: "1", Priority: model.PriorityLow, Status: model.StatusTodo},
	}

	entries, ok := Compute(users, tasks, nil)
	if !ok {
		t.Fatal("expected computed entries")
	}
	// high(20) + in-progress(5) + low(10)
	if entries[0].Score != 35 {
		t.Errorf("score = %d, want 35", entries[0].Score)
	}
	if entries[0].TaskCount != 2 {
		t.Errorf("count = %d, want 2", entries[0].TaskCount)
	}
}

func TestComputeScoreStaysInBounds(t *testing.T) {
	users := []model.User{{ID: "1"}}

	var tasks []model.Task
	for i := 0; i < 20; i++ {
		tasks = append(tasks, model.Task{
			ID:         string(rune('a' + i)),
			AssigneeID: "1",
			Priority:   model.PriorityHigh,
			Status:     model.StatusInProgress,
		})
	}

	entries, ok := Compute(users, tasks, nil)
	if !ok {
		t.Fatal("expected computed entries")
	}
	if entries[0].Score != 100 {
		t.Errorf("score = %d, want clamped to 100", entries[0].Score)
	}
	if entries[0].TaskCount != 20 {
		t.Errorf("count = %d, want 20 (count is not clamped)", entries[0].TaskCount)
	}
}

func TestComputeUnrecognizedPriorityDefaultsToLowWeight(t *testing.T) {
	users := []model.User{{ID: "1"}}
	tasks := []model.Task{
		{ID: "a", AssigneeID: "1", Priority: "urgent!!", Status: model.StatusTodo},
		{ID: "b", AssigneeID: "1", Priority: "", Status: model.StatusCompleted},
	}

	entries, ok := Compute(users, tasks, nil)
	if !ok {
		t.Fatal("expected computed entries")
	}
	if entries[0].Score != 20 {
		t.Errorf("score = %d, want 20 (two default-weight tasks)", entries[0].Score)
	}
}

func TestComputeSkipsOrphanedAssignees(t *testing.T) {
	users := []model.User{{ID: "1"}}
	tasks := []model.Task{
		{ID: "a", AssigneeID: "1", Priority: model.PriorityLow},
		{ID: "b", AssigneeID: "ghost", Priority: model.PriorityHigh},
		{ID: "c", Priority: model.PriorityHigh}, // unassigned
	}

	entries, ok := Compute(users, tasks, nil)
	if !ok {
		t.Fatal("expected computed entries")
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want only known users", entries)
	}
	if entries[0].Score != 10 || entries[0].TaskCount != 1 {
		t.Errorf("entry = %+v, want only the resolvable task counted", entries[0])
	}
}

func TestComputeEndToEndExample(t *testing.T) {
	users := []model.User{{ID: "1"}, {ID: "2"}}
	tasks := []model.Task{
		{ID: "a", AssigneeID: "1", Priority: model.PriorityHigh, Status: model.StatusTodo},
		{ID: "b", AssigneeID: "1", Priority: model.PriorityMedium, Status: model.StatusInProgress},
	}

	entries, ok := Compute(users, tasks, nil)
	if !ok {
		t.Fatal("expected computed entries")
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want both users", entries)
	}

	// 20 + 15 + 5
	if entries[0].UserID != "1" || entries[0].Score != 40 || entries[0].TaskCount != 2 {
		t.Errorf("user 1 entry = %+v, want score 40 count 2", entries[0])
	}
	if entries[1].UserID != "2" || entries[1].Score != 0 || entries[1].TaskCount != 0 {
		t.Errorf("user 2 entry = %+v, want zero workload", entries[1])
	}
}

func TestComputeResolvesMembershipAssignments(t *testing.T) {
	users := []model.User{{ID: "u1"}}
	tasks := []model.Task{
		{ID: "a", MemberID: "m1", Priority: model.PriorityMedium},
		{ID: "b", MemberID: "m-unknown", Priority: model.PriorityHigh},
	}
	members := map[string]string{"m1": "u1"}

	entries, ok := Compute(users, tasks, members)
	if !ok {
		t.Fatal("expected computed entries")
	}
	if entries[0].Score != 15 || entries[0].TaskCount != 1 {
		t.Errorf("entry = %+v, want only resolvable membership counted", entries[0])
	}
}

func TestComputeTopSkillsTakesFirstThree(t *testing.T) {
	users := []model.User{{
		ID: "1",
		Skills: []model.Skill{
			{Name: "Go", Level: 80},
			{Name: "SQL", Level: 70},
			{Name: "React", Level: 60},
			{Name: "K8s", Level: 90},
		},
	}}

	entries, ok := Compute(users, []model.Task{}, nil)
	if !ok {
		t.Fatal("expected computed entries")
	}
	if len(entries[0].TopSkills) != 3 {
		t.Fatalf("top skills = %+v, want 3", entries[0].TopSkills)
	}
	if entries[0].TopSkills[0].Name != "Go" || entries[0].TopSkills[2].Name != "React" {
		t.Errorf("top skills = %+v, want first three in profile order", entries[0].TopSkills)
	}
}
