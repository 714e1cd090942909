package workload

import (
	"sort"

	"github.com/hnguyen/teamboard/internal/model"
)

// MemberTasks is one user's assigned tasks, sorted for triage.
type MemberTasks struct {
	UserID string
	Tasks  []model.Task
}

// GroupByAssignee groups tasks by assignee user id and sorts each
// user's tasks for triage: in-progress first, then todo, then
// completed, then anything unrecognized; ties broken by ascending due
// date. Users with no tasks are omitted entirely. Groups come back in
// user-id order so repeated renders are stable.
//
// A malformed due date never aborts the grouping: the affected task
// sorts after parsable dates and everything else proceeds.
func GroupByAssignee(
	tasks []model.Task,
	members map[string]string,
) []MemberTasks {
	byUser := make(map[string][]model.Task)
	for _, t := range tasks {
		uid := t.AssignedUser(members)
		if uid == "" {
			continue
		}
		byUser[uid] = append(byUser[uid], t)
	}

	groups := make([]MemberTasks, 0, len(byUser))
	for uid, ts := range byUser {
		sortForTriage(ts)
		groups = append(groups, MemberTasks{UserID: uid, Tasks: ts})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].UserID < groups[j].UserID
	})
	return groups
}

// statusRank orders statuses for triage. Unknown statuses rank after
// all named ones.
func statusRank(status string) int {
	switch status {
	case model.StatusInProgress:
		return 0
	case model.StatusTodo:
		return 1
	case model.StatusCompleted:
		return 2
	default:
		return 3
	}
}

// sortForTriage sorts a user's tasks in place by status rank, then
// ascending due date, then task id for determinism. Unparsable due
// dates sort after parsable ones.
func sortForTriage(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := statusRank(tasks[i].Status), statusRank(tasks[j].Status)
		if ri != rj {
			return ri < rj
		}

		di, oki := model.ParseDueDate(tasks[i].DueDate)
		dj, okj := model.ParseDueDate(tasks[j].DueDate)
		switch {
		case oki && okj:
			if !di.Equal(dj) {
				return di.Before(dj)
			}
		case oki:
			return true
		case okj:
			return false
		}

		return tasks[i].ID < tasks[j].ID
	})
}
