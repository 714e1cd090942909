// Package teamtasks renders the team's tasks grouped per member and
// sorted for triage.
package teamtasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/teamboard/internal/model"
	"github.com/hnguyen/teamboard/internal/theme"
	"github.com/hnguyen/teamboard/internal/workload"
)

// Model is the grouped team-task view. Like the dashboard it is
// display-only: the app derives the groups from the cached team view
// and hands them in.
type Model struct {
	viewport viewport.Model
	users    map[string]model.User
	groups   []workload.MemberTasks
	loaded   bool
	width    int
	height   int
}

// New creates an empty team-tasks model.
func New(width, height int) Model {
	vp := viewport.New(width, height-2)
	return Model{
		viewport: vp,
		users:    make(map[string]model.User),
		width:    width,
		height:   height,
	}
}

// SetGroups installs the per-member task groups and the user directory
// used to render names.
func (m *Model) SetGroups(groups []workload.MemberTasks, users []model.User) {
	m.users = make(map[string]model.User, len(users))
	for _, u := range users {
		m.users[u.ID] = u
	}
	m.groups = groups
	m.loaded = true
	m.viewport.SetContent(m.renderGroups())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderGroups())
}

// Update handles scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the grouped team tasks inside a scrollable viewport.
func (m Model) View() string {
	header := theme.HeaderStyle.Render("Team Tasks")
	return header + "\n\n" + m.viewport.View()
}

// renderGroups draws every member section.
func (m Model) renderGroups() string {
	if !m.loaded {
		return theme.HelpStyle.Render("loading team tasks...")
	}
	if len(m.groups) == 0 {
		return theme.HelpStyle.Render("no assigned tasks on this team")
	}

	var b strings.Builder
	for i, g := range m.groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderGroup(g))
	}
	return b.String()
}

// renderGroup draws one member's heading and task rows.
func (m Model) renderGroup(g workload.MemberTasks) string {
	u := m.users[g.UserID]
	name := u.Name
	if name == "" {
		name = g.UserID
	}

	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		Render(fmt.Sprintf("%s  %s", u.Initials(), name))
	count := theme.HelpStyle.Render(fmt.Sprintf(" (%d)", len(g.Tasks)))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString(count)
	b.WriteString("\n")

	for _, t := range g.Tasks {
		b.WriteString("  ")
		b.WriteString(renderTaskRow(t))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTaskRow draws one task line under a member heading.
func renderTaskRow(t model.Task) string {
	status := theme.StatusStyle(t.Status).Render(t.Status)

	due := ""
	if d, ok := model.ParseDueDate(t.DueDate); ok {
		due = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + d.Format("Jan 02"))
	} else if t.DueDate != "" {
		due = theme.AlertStyle.Render(" due ?")
	}

	return fmt.Sprintf("%s %s%s", status, t.Title, due)
}
