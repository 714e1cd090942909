// Package dashboard renders the workload overview: one row per user
// with a score bar, task count, and top skills, plus the latest
// announcements.
package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/teamboard/internal/model"
	"github.com/hnguyen/teamboard/internal/theme"
	"github.com/hnguyen/teamboard/internal/workload"
)

// barWidth is the character width of the workload bar.
const barWidth = 20

// Model is the dashboard view. It owns no data fetching: the app hands
// it users, workload entries, and announcements as they load.
type Model struct {
	users         map[string]model.User
	entries       []workload.Entry
	known         bool
	announcements []model.Announcement
	activities    []model.Activity
	width         int
	height        int
}

// New creates an empty dashboard model.
func New(width, height int) Model {
	return Model{
		users:  make(map[string]model.User),
		width:  width,
		height: height,
	}
}

// SetWorkload installs the derived workload entries. known is false
// while either input (user list, all-tasks view) has not loaded yet,
// which renders as a loading state rather than an idle team.
func (m *Model) SetWorkload(
	users []model.User,
	entries []workload.Entry,
	known bool,
) {
	m.users = make(map[string]model.User, len(users))
	for _, u := range users {
		m.users[u.ID] = u
	}
	m.entries = entries
	m.known = known
}

// SetAnnouncements installs the announcement ticker contents.
func (m *Model) SetAnnouncements(anns []model.Announcement) {
	m.announcements = anns
}

// SetActivities installs the recent-activity feed.
func (m *Model) SetActivities(acts []model.Activity) {
	m.activities = acts
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages. The dashboard is display-only.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render("Team Workload"))
	b.WriteString("\n\n")

	if !m.known {
		b.WriteString(theme.HelpStyle.Render("loading workload data..."))
		b.WriteString("\n")
	} else if len(m.entries) == 0 {
		b.WriteString(theme.HelpStyle.Render("no team members found"))
		b.WriteString("\n")
	} else {
		for _, e := range m.entries {
			b.WriteString(m.renderEntry(e))
			b.WriteString("\n")
		}
	}

	if len(m.announcements) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.HeaderStyle.Render("Announcements"))
		b.WriteString("\n\n")
		for i, a := range m.announcements {
			if i >= 3 {
				break
			}
			b.WriteString(fmt.Sprintf(
				"%s %s\n",
				lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("•"),
				a.Title,
			))
		}
	}

	if len(m.activities) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.HeaderStyle.Render("Recent Activity"))
		b.WriteString("\n\n")
		for i, a := range m.activities {
			if i >= 5 {
				break
			}
			b.WriteString(m.renderActivity(a))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderActivity draws one activity feed line.
func (m Model) renderActivity(a model.Activity) string {
	who := a.UserID
	if u, ok := m.users[a.UserID]; ok && u.Name != "" {
		who = u.Name
	}

	line := fmt.Sprintf("%s %s", who, a.Action)
	if a.TargetType != "" {
		line += " " + a.TargetType
	}
	when := theme.HelpStyle.Render(" " + a.CreatedAt.Format("Jan 02 15:04"))
	return line + when
}

// renderEntry draws one user's workload row.
func (m Model) renderEntry(e workload.Entry) string {
	u := m.users[e.UserID]

	name := u.Name
	if name == "" {
		name = e.UserID
	}
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Background(theme.ColorSubtle).
		Padding(0, 1).
		Render(u.Initials())

	bar := theme.WorkloadStyle(e.Score).Render(workloadBar(e.Score))
	score := theme.WorkloadStyle(e.Score).Render(fmt.Sprintf("%3d", e.Score))

	count := theme.HelpStyle.Render(fmt.Sprintf("%d tasks", e.TaskCount))

	skills := ""
	if len(e.TopSkills) > 0 {
		names := make([]string, len(e.TopSkills))
		for i, s := range e.TopSkills {
			names[i] = s.Name
		}
		skills = theme.HelpStyle.Render(" · " + strings.Join(names, ", "))
	}

	return fmt.Sprintf(
		"%s %-20s %s %s  %s%s",
		badge, truncate(name, 20), bar, score, count, skills,
	)
}

// workloadBar renders a fixed-width bar proportional to the score.
func workloadBar(score int) string {
	filled := score * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
