// Package app holds the root Bubble Tea model: view routing, session
// lifecycle, and the wiring between the API services, the task cache,
// and the individual views.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/teamboard/internal/api"
	"github.com/hnguyen/teamboard/internal/cache"
	"github.com/hnguyen/teamboard/internal/keys"
	"github.com/hnguyen/teamboard/internal/model"
	"github.com/hnguyen/teamboard/internal/ui"
	"github.com/hnguyen/teamboard/internal/ui/dashboard"
	helpview "github.com/hnguyen/teamboard/internal/ui/help"
	loginview "github.com/hnguyen/teamboard/internal/ui/login"
	"github.com/hnguyen/teamboard/internal/ui/tasklist"
	"github.com/hnguyen/teamboard/internal/ui/teamtasks"
	"github.com/hnguyen/teamboard/internal/workload"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewTasks
	ViewTeamTasks
	ViewHelp
)

// Services bundles everything the root model needs to talk to the
// backend. main wires it up once.
type Services struct {
	Auth          *api.AuthService
	Tasks         *api.TaskService
	Users         *api.UserService
	Teams         *api.TeamService
	Announcements *api.AnnouncementService
	Activities    *api.ActivityService
	Cache         *cache.TaskCache
	Events        *api.Broadcaster
}

// sessionCheckedMsg reports the startup session probe.
type sessionCheckedMsg struct {
	user model.User
	err  error
}

// directoryLoadedMsg carries the user list and team membership index
// used by the dashboard and team views.
type directoryLoadedMsg struct {
	users   []model.User
	members map[string]string
	err     error
}

// announcementsLoadedMsg carries the dashboard ticker contents.
type announcementsLoadedMsg struct {
	items []model.Announcement
	err   error
}

// activitiesLoadedMsg carries the dashboard activity feed.
type activitiesLoadedMsg struct {
	items []model.Activity
	err   error
}

// apiEventMsg wraps an advisory broadcast from the API client.
type apiEventMsg struct {
	event api.Event
	ok    bool
}

// alertClearMsg clears a transient status bar alert.
type alertClearMsg struct {
	id string
}

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	svc          Services
	keys         *keys.KeyMap

	login     loginview.Model
	dashboard dashboard.Model
	taskList  tasklist.Model
	teamTasks teamtasks.Model
	helpView  helpview.Model

	events      <-chan api.Event
	unsubscribe func()

	me      model.User
	users   []model.User
	members map[string]string

	alert   string
	alertID string
	ready   bool
}

// New creates the root application model over the given services.
func New(svc Services) Model {
	k := keys.DefaultKeyMap()
	events, unsubscribe := svc.Events.Subscribe(8)

	return Model{
		currentView: ViewLogin,
		svc:         svc,
		keys:        k,
		login:       loginview.New(svc.Auth, 80, 24),
		dashboard:   dashboard.New(80, 24),
		taskList:    tasklist.New(svc.Cache, svc.Tasks, k, 80, 24),
		teamTasks:   teamtasks.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		events:      events,
		unsubscribe: unsubscribe,
	}
}

// Init probes the stored session and starts listening for advisory
// events. A valid token skips the login form entirely.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkSession(),
		m.login.Init(),
		m.waitForEvent(),
	)
}

// checkSession asks the backend who the stored token belongs to.
func (m Model) checkSession() tea.Cmd {
	auth := m.svc.Auth
	return func() tea.Msg {
		user, err := auth.Me(context.Background())
		return sessionCheckedMsg{user: user, err: err}
	}
}

// waitForEvent blocks on the advisory event channel and re-arms itself
// after each delivery.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		return apiEventMsg{event: ev, ok: ok}
	}
}

// loadDirectory fetches the user list and team memberships in one
// command; the workload board needs both before it can say anything.
func (m Model) loadDirectory() tea.Cmd {
	users := m.svc.Users
	teams := m.svc.Teams
	return func() tea.Msg {
		ctx := context.Background()

		userPage, err := users.List(ctx, 0, 0)
		if err != nil {
			return directoryLoadedMsg{err: err}
		}
		teamPage, err := teams.List(ctx, 0, 0)
		if err != nil {
			return directoryLoadedMsg{err: err}
		}

		return directoryLoadedMsg{
			users:   userPage.Items,
			members: model.MemberIndex(teamPage.Items),
		}
	}
}

// loadAnnouncements fetches the dashboard ticker contents.
func (m Model) loadAnnouncements() tea.Cmd {
	svc := m.svc.Announcements
	return func() tea.Msg {
		page, err := svc.List(context.Background(), 1, 5)
		return announcementsLoadedMsg{items: page.Items, err: err}
	}
}

// loadActivities fetches the dashboard activity feed.
func (m Model) loadActivities() tea.Cmd {
	svc := m.svc.Activities
	return func() tea.Msg {
		page, err := svc.List(context.Background(), 1, 10)
		return activitiesLoadedMsg{items: page.Items, err: err}
	}
}

// ensureView loads a cache view and reports through the task list's
// message type so one handler covers every consumer.
func (m Model) ensureView(view cache.View) tea.Cmd {
	c := m.svc.Cache
	return func() tea.Msg {
		page, err := c.Ensure(context.Background(), view)
		return tasklist.TasksLoadedMsg{View: view, Page: page, Err: err}
	}
}

// enterDashboard switches to the dashboard and kicks off everything it
// needs.
func (m *Model) enterDashboard() tea.Cmd {
	m.currentView = ViewDashboard
	m.refreshWorkload()
	return tea.Batch(
		m.loadDirectory(),
		m.loadAnnouncements(),
		m.loadActivities(),
		m.ensureView(cache.ViewAll),
	)
}

// refreshWorkload recomputes the dashboard from whatever has loaded so
// far. Until both the directory and the all-tasks view are in, the
// board shows a loading state rather than a deceptively idle team.
func (m *Model) refreshWorkload() {
	var tasks []model.Task
	if page, ok := m.svc.Cache.Get(cache.ViewAll); ok {
		tasks = page.Items
	}

	entries, known := workload.Compute(m.users, tasks, m.members)
	m.dashboard.SetWorkload(m.users, entries, known)
}

// refreshTeamTasks regroups the team view for the triage screen.
func (m *Model) refreshTeamTasks() {
	page, ok := m.svc.Cache.Get(cache.ViewTeam)
	if !ok {
		return
	}
	groups := workload.GroupByAssignee(page.Items, m.members)
	m.teamTasks.SetGroups(groups, m.users)
}

// setAlert installs a transient status bar alert and returns a command
// that clears it after a few seconds.
func (m *Model) setAlert(text string) tea.Cmd {
	m.alert = text
	m.alertID = fmt.Sprintf("%d", time.Now().UnixNano())
	id := m.alertID
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return alertClearMsg{id: id}
	})
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.login.SetSize(w, h)
		m.dashboard.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.teamTasks.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveView(msg)

	case sessionCheckedMsg:
		if msg.err != nil {
			// No session or an expired one; the login form is already
			// up, so just stay there.
			return m, nil
		}
		m.me = msg.user
		return m, m.enterDashboard()

	case loginview.ResultMsg:
		if msg.Err != nil {
			// The form shows the failure itself.
			return m.updateActiveView(msg)
		}
		m.me = msg.Session.User
		m.svc.Cache.InvalidateAll()
		return m, m.enterDashboard()

	case directoryLoadedMsg:
		if msg.err != nil {
			return m, m.setAlert(fmt.Sprintf("loading team directory: %v", msg.err))
		}
		m.users = msg.users
		m.members = msg.members
		m.refreshWorkload()
		m.refreshTeamTasks()
		return m, nil

	case announcementsLoadedMsg:
		// A missing ticker is not worth an alert.
		if msg.err == nil {
			m.dashboard.SetAnnouncements(msg.items)
		}
		return m, nil

	case activitiesLoadedMsg:
		if msg.err == nil {
			m.dashboard.SetActivities(msg.items)
		}
		return m, nil

	case tasklist.TasksLoadedMsg:
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		switch msg.View {
		case cache.ViewAll:
			m.refreshWorkload()
		case cache.ViewTeam:
			m.refreshTeamTasks()
		}
		return m, cmd

	case apiEventMsg:
		return m.handleAPIEvent(msg)

	case alertClearMsg:
		if msg.id == m.alertID {
			m.alert = ""
		}
		return m, nil

	case tea.KeyMsg:
		if newM, cmd, handled := m.handleGlobalKey(msg); handled {
			return newM, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleAPIEvent reacts to advisory broadcasts from the API client.
func (m Model) handleAPIEvent(msg apiEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return m, nil
	}

	rearm := m.waitForEvent()

	switch msg.event.Signal {
	case api.SignalUnauthorized:
		// Token is gone; everything cached belongs to the dead session.
		m.svc.Cache.InvalidateAll()
		m.currentView = ViewLogin
		return m, tea.Batch(rearm, m.login.Reset("session expired, sign in again"))

	case api.SignalServerUnavailable:
		return m, tea.Batch(rearm, m.setAlert("server unavailable, showing cached data"))

	case api.SignalNetworkUnavailable:
		return m, tea.Batch(rearm, m.setAlert("network unreachable, showing cached data"))
	}

	return m, rearm
}

// handleGlobalKey processes keys that work across views. The login
// form owns all input while it is active.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.currentView == ViewLogin {
		if msg.String() == "ctrl+c" {
			m.unsubscribe()
			return m, tea.Quit, true
		}
		return m, nil, false
	}

	// The task list's search prompt captures plain keys too.
	if m.currentView == ViewTasks && m.taskList.InputActive() {
		if msg.String() == "ctrl+c" {
			m.unsubscribe()
			return m, tea.Quit, true
		}
		return m, nil, false
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.unsubscribe()
		return m, tea.Quit, true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return m, nil, true

	case "1":
		return m, m.enterDashboard(), true

	case "2":
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks(), true

	case "3":
		m.currentView = ViewTeamTasks
		m.refreshTeamTasks()
		return m, m.ensureView(cache.ViewTeam), true

	case "r":
		return m, m.refreshCurrent(), true

	case "L":
		return m, m.logout(), true
	}

	return m, nil, false
}

// refreshCurrent invalidates and reloads whatever the active view
// shows.
func (m *Model) refreshCurrent() tea.Cmd {
	switch m.currentView {
	case ViewDashboard:
		m.svc.Cache.Invalidate(cache.ViewAll)
		return m.enterDashboard()
	case ViewTasks:
		return m.taskList.Refresh()
	case ViewTeamTasks:
		m.svc.Cache.Invalidate(cache.ViewTeam)
		return m.ensureView(cache.ViewTeam)
	}
	return nil
}

// logout ends the session and returns to the login form.
func (m *Model) logout() tea.Cmd {
	auth := m.svc.Auth
	m.svc.Cache.InvalidateAll()
	m.me = model.User{}
	m.currentView = ViewLogin

	resetCmd := m.login.Reset("")
	return tea.Batch(resetCmd, func() tea.Msg {
		// Best effort; the token is cleared locally regardless.
		_ = auth.Logout(context.Background())
		return nil
	})
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewTeamTasks:
		m.teamTasks, cmd = m.teamTasks.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.login.View()
	}

	header := m.layout.RenderHeader("Teamboard", m.headerInfo())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.alert)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewTeamTasks:
		return m.teamTasks.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// headerInfo shows who is signed in and how fresh the active view is.
func (m Model) headerInfo() string {
	who := m.me.Name
	if who == "" {
		who = m.me.Email
	}

	view := m.activeCacheView()
	if view == "" {
		return who
	}

	snap := m.svc.Cache.Inspect(view)
	switch snap.State {
	case cache.StateLoading:
		return who + " · loading"
	case cache.StateErrored:
		if snap.HasData {
			return who + " · stale"
		}
		return who + " · unavailable"
	case cache.StateReady:
		return who + " · " + snap.FetchedAt.Format("15:04:05")
	default:
		return who
	}
}

// activeCacheView maps the current screen to the cache view backing it.
func (m Model) activeCacheView() cache.View {
	switch m.currentView {
	case ViewDashboard:
		return cache.ViewAll
	case ViewTasks:
		return m.taskList.CurrentView()
	case ViewTeamTasks:
		return cache.ViewTeam
	}
	return ""
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help"
	case ViewTasks:
		return "tab cycle view | / search | r refresh | 1 dashboard | 3 team | ? help"
	case ViewTeamTasks:
		return "j/k scroll | r refresh | 1 dashboard | 2 tasks | ? help"
	default:
		return "2 tasks | 3 team tasks | r refresh | L log out | ? help | q quit"
	}
}
