package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/teamboard/internal/theme"
)

// Layout manages the terminal layout dimensions shared by all views.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content
// area, accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title on the left and
// session/staleness info on the right.
func (l Layout) RenderHeader(title string, info string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	infoRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(info)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(infoRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		infoRendered,
	)
}

// RenderStatusBar renders the bottom status bar. alert, when non-empty,
// takes priority over the keyboard hints.
func (l Layout) RenderStatusBar(hints string, alert string) string {
	content := hints
	if alert != "" {
		content = theme.AlertStyle.Render(alert)
	}
	rendered := theme.StatusBarStyle.Render(content)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
