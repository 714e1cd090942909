// Package workload derives presentation-ready structures from the
// cached task views and the user list: per-user workload scores for
// the dashboard widgets and per-member task groupings for the team
// view. Everything here is recomputed on every call and never stored.
package workload

import "github.com/hnguyen/teamboard/internal/model"

// Priority weights for the workload heuristic. Unrecognized priorities
// weigh the same as low rather than failing.
const (
	weightHigh    = 20
	weightMedium  = 15
	weightLow     = 10
	weightDefault = 10

	// inProgressBonus is added per task currently being worked on.
	inProgressBonus = 5

	// maxScore caps the workload indicator.
	maxScore = 100

	// topSkillCount is how many profile skills surface on the widget.
	topSkillCount = 3
)

// Entry is one user's derived workload.
type Entry struct {
	UserID string

	// Score is the 0-100 workload indicator.
	Score int

	// TaskCount is the number of tasks assigned to the user.
	TaskCount int

	// TopSkills holds up to three skills in profile order.
	TopSkills []model.Skill
}

// Compute derives a workload entry for every user in the given list.
//
// The second return value is false when either input has not been
// loaded yet (nil slice): "we don't know" is a different answer than
// "everyone is idle", and widgets must be able to tell them apart.
// Loaded-but-empty inputs compute normally.
//
// Tasks referencing users absent from the list, and membership
// references that do not resolve through members, are skipped without
// error: the cache and the backend converge eventually, and transient
// skew is acceptable for a dashboard indicator.
func Compute(
	users []model.User,
	tasks []model.Task,
	members map[string]string,
) ([]Entry, bool) {
	if users == nil || tasks == nil {
		return nil, false
	}

	scores := make(map[string]int, len(users))
	counts := make(map[string]int, len(users))
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}

	for _, t := range tasks {
		uid := t.AssignedUser(members)
		if uid == "" || !known[uid] {
			continue
		}

		scores[uid] += priorityWeight(t.Priority)
		if t.Status == model.StatusInProgress {
			scores[uid] += inProgressBonus
		}
		counts[uid]++
	}

	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		score := scores[u.ID]
		if score > maxScore {
			score = maxScore
		}

		entries = append(entries, Entry{
			UserID:    u.ID,
			Score:     score,
			TaskCount: counts[u.ID],
			TopSkills: topSkills(u.Skills),
		})
	}
	return entries, true
}

// priorityWeight maps a task priority to its workload weight.
func priorityWeight(priority string) int {
	switch priority {
	case model.PriorityHigh:
		return weightHigh
	case model.PriorityMedium:
		return weightMedium
	case model.PriorityLow:
		return weightLow
	default:
		return weightDefault
	}
}

// topSkills returns the first few skills as listed on the profile.
func topSkills(skills []model.Skill) []model.Skill {
	if len(skills) <= topSkillCount {
		return skills
	}
	return skills[:topSkillCount]
}
