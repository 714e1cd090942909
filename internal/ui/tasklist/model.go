package tasklist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/teamboard/internal/api"
	"github.com/hnguyen/teamboard/internal/cache"
	"github.com/hnguyen/teamboard/internal/keys"
	"github.com/hnguyen/teamboard/internal/model"
	"github.com/hnguyen/teamboard/internal/theme"
)

// TasksLoadedMsg is sent when a cache view has been ensured.
type TasksLoadedMsg struct {
	View cache.View
	Page api.Page[model.Task]
	Err  error
}

// SearchResultsMsg is sent when a backend search completes. Search
// results are not cached: they are ad-hoc slices, not logical views.
type SearchResultsMsg struct {
	Query string
	Page  api.Page[model.Task]
	Err   error
}

// viewCycle is the order Tab steps through the cached task views.
var viewCycle = []cache.View{
	cache.ViewMy,
	cache.ViewTeam,
	cache.ViewCreated,
	cache.ViewUnassigned,
	cache.ViewAll,
}

// Model is the task list view backed by the task cache.
type Model struct {
	list        list.Model
	cache       *cache.TaskCache
	tasks       *api.TaskService
	keys        *keys.KeyMap
	viewIndex   int
	searchMode  bool
	searchInput textinput.Model
	searching   bool
	errMsg      string
	width       int
	height      int
}

// New creates a new task list model over the given cache and service.
func New(
	c *cache.TaskCache,
	tasks *api.TaskService,
	k *keys.KeyMap,
	width, height int,
) Model {
	l := list.New([]list.Item{}, TaskDelegate{}, width, height-2)
	l.Title = "My Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		cache:       c,
		tasks:       tasks,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// CurrentView returns the active cache view.
func (m Model) CurrentView() cache.View {
	return viewCycle[m.viewIndex]
}

// InputActive reports whether the search prompt currently owns the
// keyboard, so global shortcuts stay out of the way.
func (m Model) InputActive() bool {
	return m.searchMode
}

// Init returns a command that loads the initial view.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// LoadTasks ensures the active view and reports the result. Serving a
// fresh cached copy and hitting the backend look identical from here;
// the cache decides.
func (m Model) LoadTasks() tea.Cmd {
	view := m.CurrentView()
	c := m.cache
	return func() tea.Msg {
		page, err := c.Ensure(context.Background(), view)
		return TasksLoadedMsg{View: view, Page: page, Err: err}
	}
}

// Refresh invalidates the active view and reloads it.
func (m Model) Refresh() tea.Cmd {
	m.cache.Invalidate(m.CurrentView())
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		if msg.View != m.CurrentView() {
			return m, nil
		}
		if msg.Err != nil {
			// Keep whatever is on screen; a cached copy beats a blank.
			m.errMsg = fmt.Sprintf("refresh failed: %v", msg.Err)
			if len(m.list.Items()) == 0 {
				m.errMsg += " (press r to retry)"
			}
			return m, nil
		}
		m.errMsg = ""
		return m, m.setItems(msg.Page.Items)

	case SearchResultsMsg:
		if !m.searching {
			return m, nil
		}
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("search failed: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.list.Title = fmt.Sprintf("Search: %s", msg.Query)
		return m, m.setItems(msg.Page.Items)

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search prompt is open.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		m.searching = true
		tasks := m.tasks
		return m, func() tea.Msg {
			page, err := tasks.List(context.Background(), api.TaskQuery{
				Search: query,
			})
			return SearchResultsMsg{Query: query, Page: page, Err: err}
		}

	case "esc":
		m.searchMode = false
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in browse mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searchMode = true
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()

	case "tab":
		m.viewIndex = (m.viewIndex + 1) % len(viewCycle)
		m.searching = false
		m.list.Title = viewTitle(m.CurrentView())
		return m, m.LoadTasks()

	case "r":
		m.searching = false
		m.list.Title = viewTitle(m.CurrentView())
		return m, m.Refresh()

	case "esc":
		if m.searching {
			m.searching = false
			m.list.Title = viewTitle(m.CurrentView())
			return m, m.LoadTasks()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// setItems replaces the list contents.
func (m *Model) setItems(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, task := range tasks {
		items[i] = TaskItem{Task: task}
	}
	return m.list.SetItems(items)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

// View renders the task list.
func (m Model) View() string {
	out := m.list.View()
	if m.searchMode {
		out += "\n" + m.searchInput.View()
	}
	if m.errMsg != "" {
		out += "\n" + theme.AlertStyle.Render(m.errMsg)
	}
	return out
}

// viewTitle maps a cache view to its list title.
func viewTitle(v cache.View) string {
	switch v {
	case cache.ViewMy:
		return "My Tasks"
	case cache.ViewTeam:
		return "Team Tasks"
	case cache.ViewCreated:
		return "Created by Me"
	case cache.ViewUnassigned:
		return "Unassigned"
	default:
		return "All Tasks"
	}
}
