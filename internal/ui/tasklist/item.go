package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/teamboard/internal/model"
	"github.com/hnguyen/teamboard/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct{}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := ti.Task

	statusBadge := theme.StatusStyle(task.Status).Render(task.Status)
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	dueStr := ""
	if due, ok := model.ParseDueDate(task.DueDate); ok {
		dueStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + due.Format("Jan 02"))
	}

	progressStr := ""
	if task.Progress > 0 {
		progressStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf(" %d%%", task.Progress))
	}

	tagStr := ""
	if len(task.Tags) > 0 {
		display := task.Tags
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		tagStr = lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(" #" + strings.Join(display, " #"))
	}

	line := fmt.Sprintf(
		"%s %s %s%s%s%s",
		statusBadge, priBadge, task.Title, tagStr, dueStr, progressStr,
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityHigh:
		return "HI"
	case model.PriorityMedium:
		return "MD"
	case model.PriorityLow:
		return "LO"
	default:
		return "??"
	}
}
