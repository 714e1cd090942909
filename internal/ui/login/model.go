// Package login implements the sign-in form shown when no valid
// session token is available.
package login

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/teamboard/internal/api"
	"github.com/hnguyen/teamboard/internal/theme"
)

// ResultMsg is dispatched when a login attempt finishes.
type ResultMsg struct {
	Session api.Session
	Err     error
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	register bool
	name     string
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	auth   *api.AuthService
	busy   bool
	errMsg string
	width  int
	height int
}

// New creates a new login form model.
func New(auth *api.AuthService, width, height int) Model {
	m := Model{
		fb:     &formBindings{},
		auth:   auth,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Reset clears the form for a fresh attempt, keeping the email so a
// mistyped password doesn't mean retyping everything. reason, when
// non-empty, is shown above the form (e.g. "session expired").
func (m *Model) Reset(reason string) tea.Cmd {
	m.fb.password = ""
	m.busy = false
	m.errMsg = reason
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if res, ok := msg.(ResultMsg); ok {
		if res.Err != nil {
			// Stay on the form; the app only leaves on success.
			return m, m.Reset(loginErrorMessage(res.Err))
		}
		return m, nil
	}

	if m.busy || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		return m, m.submit()
	}

	return m, cmd
}

// submit runs the login (or register) call off the UI loop.
func (m Model) submit() tea.Cmd {
	auth := m.auth
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password
	register := m.fb.register
	name := strings.TrimSpace(m.fb.name)

	return func() tea.Msg {
		var (
			session api.Session
			err     error
		)
		if register {
			session, err = auth.Register(context.Background(), name, email, password)
		} else {
			session, err = auth.Login(context.Background(), email, password)
		}
		return ResultMsg{Session: session, Err: err}
	}
}

// View renders the login form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Teamboard — Sign In"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(theme.AlertStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(theme.HelpStyle.Render("signing in..."))
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("New account?").
				Affirmative("Register").
				Negative("Sign in").
				Value(&m.fb.register),
			huh.NewInput().
				Title("Name (for new accounts)").
				Placeholder("Optional unless registering").
				Value(&m.fb.name),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// loginErrorMessage translates API errors into something a user at a
// login prompt can act on.
func loginErrorMessage(err error) string {
	switch {
	case api.IsUnauthorized(err):
		return "invalid email or password"
	case api.IsNetwork(err):
		return "cannot reach the server, check your connection"
	case api.IsServerError(err):
		return "server error, try again shortly"
	default:
		return fmt.Sprintf("login failed: %v", err)
	}
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}
