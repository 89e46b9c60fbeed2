// Package tui provides the terminal surface for the notification
// center: a bell summary with an unread badge, the unread panel and
// the paginated history view, plus transient toast lines for pushed
// notifications.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AzerQ/sed-notifications/internal/coordinator"
	"github.com/AzerQ/sed-notifications/internal/domain"
)

// view identifies which surface is on screen. The panel and history
// views report themselves to the coordinator as the open sidebar and
// modal, which suppresses toasts while either is visible.
type view int

const (
	viewBell view = iota
	viewPanel
	viewHistory
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	OpenPanel   key.Binding
	OpenHistory key.Binding
	Back        key.Binding
	MarkRead    key.Binding
	MarkAll     key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	ClearFilter key.Binding
	Refresh     key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		OpenPanel:   key.NewBinding(key.WithKeys("enter", "u"), key.WithHelp("enter", "unread")),
		OpenHistory: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		MarkRead:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark read")),
		MarkAll:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "mark all read")),
		NextPage:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
		PrevPage:    key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
		ClearFilter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Refresh:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Messages fed into the bubbletea loop from outside.
type (
	// stateChangedMsg arrives whenever the coordinator state changed.
	stateChangedMsg struct{}
	// toastMsg carries a pushed notification to display transiently.
	toastMsg struct{ notification domain.CompactNotification }
	// toastExpiredMsg clears a displayed toast after its duration.
	toastExpiredMsg struct{ seq int }
	// opFailedMsg reports a failed coordinator operation.
	opFailedMsg struct{ err error }
)

// Model is the bubbletea model over the notification coordinator.
type Model struct {
	coord  *coordinator.Coordinator
	keys   keyMap
	styles styles
	sp     spinner.Model

	view   view
	cursor int
	width  int
	height int

	toast    *domain.CompactNotification
	toastSeq int

	opErr error
}

// NewModel creates the TUI model over an initialized coordinator.
func NewModel(coord *coordinator.Coordinator) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Model{
		coord:  coord,
		keys:   defaultKeyMap(),
		styles: defaultStyles(),
		sp:     sp,
		view:   viewBell,
	}
}

// Init starts the spinner and triggers the initial loads.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.sp.Tick,
		m.cmd(func(ctx context.Context) error { return m.coord.LoadUnreadNotifications(ctx) }),
		m.cmd(func(ctx context.Context) error { return m.coord.LoadAllNotifications(ctx) }),
	)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case stateChangedMsg:
		m.clampCursor()
		return m, nil
	case toastMsg:
		m.toast = &msg.notification
		m.toastSeq++
		seq := m.toastSeq
		d := time.Duration(m.coord.ToastSettings().Duration) * time.Second
		return m, tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	case opFailedMsg:
		m.opErr = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.opErr = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Dispose()
		return m, tea.Quit

	case key.Matches(msg, m.keys.OpenPanel):
		if m.view != viewPanel {
			m.switchView(viewPanel)
			return m, m.cmd(func(ctx context.Context) error { return m.coord.LoadUnreadNotifications(ctx) })
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenHistory):
		if m.view != viewHistory {
			m.switchView(viewHistory)
			return m, m.cmd(func(ctx context.Context) error { return m.coord.LoadAllNotifications(ctx) })
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.switchView(viewBell)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkRead):
		rows := m.rows()
		if m.view == viewBell || m.cursor >= len(rows) {
			return m, nil
		}
		id := rows[m.cursor].ID
		return m, m.cmd(func(ctx context.Context) error { return m.coord.MarkAsRead(ctx, id) })

	case key.Matches(msg, m.keys.MarkAll):
		if m.view != viewPanel {
			return m, nil
		}
		return m, m.cmd(func(ctx context.Context) error { return m.coord.MarkAllAsRead(ctx) })

	case key.Matches(msg, m.keys.NextPage):
		if m.view != viewHistory {
			return m, nil
		}
		next := m.coord.CurrentPage() + 1
		if next > m.coord.TotalPages() {
			return m, nil
		}
		return m, m.cmd(func(ctx context.Context) error { return m.coord.SetPage(ctx, next) })

	case key.Matches(msg, m.keys.PrevPage):
		if m.view != viewHistory {
			return m, nil
		}
		prev := m.coord.CurrentPage() - 1
		if prev < 1 {
			return m, nil
		}
		return m, m.cmd(func(ctx context.Context) error { return m.coord.SetPage(ctx, prev) })

	case key.Matches(msg, m.keys.ClearFilter):
		if m.view != viewHistory {
			return m, nil
		}
		return m, m.cmd(func(ctx context.Context) error { return m.coord.ClearFilters(ctx) })

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(
			m.cmd(func(ctx context.Context) error { return m.coord.LoadUnreadNotifications(ctx) }),
			m.cmd(func(ctx context.Context) error { return m.coord.LoadAllNotifications(ctx) }),
		)
	}
	return m, nil
}

func (m *Model) switchView(v view) {
	m.view = v
	m.cursor = 0
	m.coord.SetSidebarOpen(v == viewPanel)
	m.coord.SetModalOpen(v == viewHistory)
}

// rows returns the collection backing the current view.
func (m *Model) rows() []domain.Notification {
	switch m.view {
	case viewPanel:
		return m.coord.Unread()
	case viewHistory:
		return m.coord.Notifications()
	default:
		return nil
	}
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		if n == 0 {
			m.cursor = 0
		} else {
			m.cursor = n - 1
		}
	}
}

// cmd runs a coordinator operation off the update loop, surfacing
// failures as opFailedMsg. State refreshes arrive separately through
// the coordinator subscription.
func (m *Model) cmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := op(context.Background()); err != nil {
			return opFailedMsg{err: err}
		}
		return stateChangedMsg{}
	}
}
