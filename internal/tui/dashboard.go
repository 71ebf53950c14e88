package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/taskflow/internal/model"
)

// TodoSource is the todo store as seen by the dashboard.
type TodoSource interface {
	Filtered(f model.Filter) []model.Todo
	Add(in model.TodoInput) (model.Todo, error)
	ToggleComplete(id string) error
	Remove(id string) error
}

// NotificationSource is the reminder checker as seen by the dashboard.
type NotificationSource interface {
	Notifications() []model.Notification
	Unread() int
	MarkAsRead(id string)
	ClearAll()
	HasPermission() bool
}

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// NotificationMsg delivers a freshly raised notification to the model.
type NotificationMsg model.Notification

// DashboardModel is the bubbletea model for 'taskflow watch'.
type DashboardModel struct {
	todos         TodoSource
	notifications NotificationSource
	user          *model.User

	filters   []model.Filter
	filterIdx int
	cursor    int

	visible []model.Todo
	notes   []model.Notification
	unread  int

	form *addForm // non-nil while adding a todo

	width      int
	height     int
	err        error
	message    string
	messageExp time.Time
	now        func() time.Time

	refreshInterval  time.Duration
	maxNotifications int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Todos            TodoSource
	Notifications    NotificationSource
	User             *model.User
	Filter           model.Filter
	RefreshInterval  time.Duration
	MaxNotifications int
	Now              func() time.Time
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.MaxNotifications == 0 {
		config.MaxNotifications = 5
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	m := &DashboardModel{
		todos:            config.Todos,
		notifications:    config.Notifications,
		user:             config.User,
		filters:          model.Filters(),
		now:              config.Now,
		refreshInterval:  config.RefreshInterval,
		maxNotifications: config.MaxNotifications,
	}
	for i, f := range m.filters {
		if f == config.Filter {
			m.filterIdx = i
		}
	}
	m.loadData()
	return m
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && m.now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		m.loadData()
		return m, m.tickCmd()

	case NotificationMsg:
		m.loadData()
		m.setMessage(fmt.Sprintf("Reminder: %s", msg.Message), 5*time.Second)
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "a":
		m.form = &addForm{}
		m.err = nil

	case "d", "delete":
		if m.cursor < len(m.visible) {
			t := m.visible[m.cursor]
			if err := m.todos.Remove(t.ID); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.setMessage(fmt.Sprintf("Removed %q", t.Title), 2*time.Second)
			}
			m.loadData()
		}

	case "tab", "right", "l":
		m.filterIdx = (m.filterIdx + 1) % len(m.filters)
		m.cursor = 0
		m.loadData()

	case "shift+tab", "left", "h":
		m.filterIdx = (m.filterIdx - 1 + len(m.filters)) % len(m.filters)
		m.cursor = 0
		m.loadData()

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "x", " ":
		if m.cursor < len(m.visible) {
			t := m.visible[m.cursor]
			if err := m.todos.ToggleComplete(t.ID); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.setMessage(fmt.Sprintf("Toggled %q", t.Title), 2*time.Second)
			}
			m.loadData()
		}

	case "m":
		for _, n := range m.notes {
			if !n.Read {
				m.notifications.MarkAsRead(n.ID)
			}
		}
		m.loadData()

	case "c":
		m.notifications.ClearAll()
		m.setMessage("Notifications cleared", 2*time.Second)
		m.loadData()

	case "r":
		m.loadData()
		m.setMessage("Refreshed", time.Second)
	}

	return m, nil
}

func (m *DashboardModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.form = nil
		m.err = nil

	case tea.KeyEnter, tea.KeyTab:
		if !m.form.advance() {
			return m, nil
		}
		in, err := m.form.input(m.now())
		if err != nil {
			m.err = err
			return m, nil
		}
		t, err := m.todos.Add(in)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.form = nil
		m.err = nil
		m.setMessage(fmt.Sprintf("Added %q", t.Title), 2*time.Second)
		m.loadData()
		m.selectTodo(t.ID)

	case tea.KeyBackspace:
		m.form.backspace()

	case tea.KeySpace:
		m.form.insert([]rune{' '})

	case tea.KeyRunes:
		m.form.insert(msg.Runes)
	}
	return m, nil
}

func (m *DashboardModel) selectTodo(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	todos := &TodosComponent{
		Filter: m.filter(),
		Todos:  m.visible,
		Cursor: m.cursor,
		Width:  m.width,
		Now:    m.now(),
	}
	notes := &NotificationsComponent{
		Notifications: m.notes,
		Unread:        m.unread,
		Escalating:    m.notifications.HasPermission(),
		Width:         m.width,
		Max:           m.maxNotifications,
	}
	sections = append(sections, notes.View())
	if m.form != nil {
		sections = append(sections, m.form.View(m.width))
	}
	sections = append(sections, todos.View(), HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("TaskFlow")
	now := StyleSubtitle.Render(m.now().Format("Mon Jan 2, 15:04:05"))
	parts := []string{title, "  ", now}
	if m.user != nil {
		parts = append(parts, "  ", StyleSubtitle.Render(m.user.DisplayName()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m *DashboardModel) filter() model.Filter {
	return m.filters[m.filterIdx]
}

func (m *DashboardModel) loadData() {
	m.visible = m.todos.Filtered(m.filter())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.notes = m.notifications.Notifications()
	m.unread = m.notifications.Unread()
}

func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(duration)
}

func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Subscriber registers a notification callback.
type Subscriber interface {
	Subscribe(fn func(model.Notification))
}

// Run starts the dashboard and forwards new notifications into it.
func Run(config DashboardConfig, sub Subscriber) error {
	m := NewDashboardModel(config)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if sub != nil {
		sub.Subscribe(func(n model.Notification) {
			p.Send(NotificationMsg(n))
		})
	}
	_, err := p.Run()
	return err
}
