package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzerQ/sed-notifications/internal/coordinator"
	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/ports"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

type stubService struct {
	mu        sync.Mutex
	unread    []domain.Notification
	all       []domain.Notification
	markedIDs []int64
}

func (s *stubService) GetUnreadNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Page{Data: s.unread, Total: len(s.unread), Page: 1, PageSize: req.PageSize, TotalPages: 1}, nil
}

func (s *stubService) GetAllNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Page{Data: s.all, Total: len(s.all), Page: req.Page, PageSize: req.PageSize, TotalPages: 1}, nil
}

func (s *stubService) MarkAsRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markedIDs = append(s.markedIDs, id)
	return nil
}

func (s *stubService) MarkMultipleAsRead(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markedIDs = append(s.markedIDs, ids...)
	return nil
}

func (s *stubService) GetUnreadCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unread), nil
}

func (s *stubService) GetUserNotificationSettings(ctx context.Context) (settings.UserNotificationSettings, error) {
	return settings.UserNotificationSettings{}, nil
}

func (s *stubService) SaveUserNotificationSettings(ctx context.Context, us settings.UserNotificationSettings) error {
	return nil
}

func (s *stubService) GetToastSettings(ctx context.Context) (settings.ToastSettings, error) {
	return settings.DefaultToastSettings(), nil
}

func (s *stubService) SaveToastSettings(ctx context.Context, ts settings.ToastSettings) error {
	return nil
}

type stubChannel struct{}

func (stubChannel) Start(ctx context.Context) error                      { return nil }
func (stubChannel) Stop() error                                          { return nil }
func (stubChannel) Connected() bool                                      { return false }
func (stubChannel) Subscribe(fn func(ports.PushEvent)) ports.Subscription { return stubSub{} }

type stubSub struct{}

func (stubSub) Cancel() {}

func notif(id int64, title string, read bool) domain.Notification {
	return domain.Notification{
		ID:     id,
		Title:  title,
		Type:   domain.TypeDocument,
		Author: "ivanov",
		Date:   "2026-08-30T10:00:00Z",
		Read:   read,
	}
}

func newTestModel(t *testing.T, svc *stubService) *Model {
	t.Helper()
	coord := coordinator.New(context.Background(), svc, stubChannel{})
	t.Cleanup(coord.Dispose)
	require.NoError(t, coord.LoadUnreadNotifications(context.Background()))
	require.NoError(t, coord.LoadAllNotifications(context.Background()))
	return NewModel(coord)
}

func keyPress(m *Model, k string) (*Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	updated, cmd := m.Update(msg)
	return updated.(*Model), cmd
}

func TestOpenPanelMarksSidebarOpen(t *testing.T) {
	svc := &stubService{unread: []domain.Notification{notif(1, "a", false)}}
	m := newTestModel(t, svc)

	m, _ = keyPress(m, "enter")
	assert.Equal(t, viewPanel, m.view)
	assert.True(t, m.coord.SidebarOpen())
	assert.False(t, m.coord.ModalOpen())

	m, _ = keyPress(m, "esc")
	assert.Equal(t, viewBell, m.view)
	assert.False(t, m.coord.SidebarOpen())
}

func TestOpenHistoryMarksModalOpen(t *testing.T) {
	svc := &stubService{}
	m := newTestModel(t, svc)

	m, _ = keyPress(m, "h")
	assert.Equal(t, viewHistory, m.view)
	assert.True(t, m.coord.ModalOpen())
	assert.False(t, m.coord.SidebarOpen())
}

func TestCursorMovementClamped(t *testing.T) {
	svc := &stubService{unread: []domain.Notification{
		notif(1, "a", false), notif(2, "b", false),
	}}
	m := newTestModel(t, svc)
	m, _ = keyPress(m, "enter")

	m, _ = keyPress(m, "k")
	assert.Equal(t, 0, m.cursor)

	m, _ = keyPress(m, "j")
	assert.Equal(t, 1, m.cursor)
	m, _ = keyPress(m, "j")
	assert.Equal(t, 1, m.cursor)
}

func TestMarkReadUnderCursor(t *testing.T) {
	svc := &stubService{unread: []domain.Notification{
		notif(1, "a", false), notif(2, "b", false),
	}}
	m := newTestModel(t, svc)
	m, _ = keyPress(m, "enter")
	m, _ = keyPress(m, "j")

	m, cmd := keyPress(m, "r")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, stateChangedMsg{}, msg)
	assert.Equal(t, []int64{2}, svc.markedIDs)
}

func TestMarkReadIgnoredOnBellView(t *testing.T) {
	svc := &stubService{unread: []domain.Notification{notif(1, "a", false)}}
	m := newTestModel(t, svc)

	_, cmd := keyPress(m, "r")
	assert.Nil(t, cmd)
	assert.Empty(t, svc.markedIDs)
}

func TestToastLifecycle(t *testing.T) {
	svc := &stubService{}
	m := newTestModel(t, svc)

	compact := domain.CompactNotification{ID: 5, Title: "fresh", Author: "petrov", Date: "2026-08-30T10:00:00Z"}
	updated, cmd := m.Update(toastMsg{notification: compact})
	m = updated.(*Model)
	require.NotNil(t, cmd)
	require.NotNil(t, m.toast)
	assert.Contains(t, m.View(), "fresh")

	// A stale expiry must not clear a newer toast.
	newer := domain.CompactNotification{ID: 6, Title: "newer", Author: "petrov", Date: "2026-08-30T10:01:00Z"}
	updated, _ = m.Update(toastMsg{notification: newer})
	m = updated.(*Model)
	updated, _ = m.Update(toastExpiredMsg{seq: m.toastSeq - 1})
	m = updated.(*Model)
	require.NotNil(t, m.toast)
	assert.Equal(t, "newer", m.toast.Title)

	updated, _ = m.Update(toastExpiredMsg{seq: m.toastSeq})
	m = updated.(*Model)
	assert.Nil(t, m.toast)
}

func TestViewShowsUnreadBadge(t *testing.T) {
	svc := &stubService{unread: []domain.Notification{
		notif(1, "a", false), notif(2, "b", false), notif(3, "c", false),
	}}
	m := newTestModel(t, svc)

	out := m.View()
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "unread notification")
}

func TestHistoryViewListsRows(t *testing.T) {
	svc := &stubService{all: []domain.Notification{
		notif(1, "contract review", true),
		notif(2, "budget approval", false),
	}}
	m := newTestModel(t, svc)
	m, _ = keyPress(m, "h")

	out := m.View()
	assert.Contains(t, out, "contract review")
	assert.Contains(t, out, "budget approval")
	assert.Contains(t, out, "page 1/1")
}

func TestOpFailureShownOnce(t *testing.T) {
	svc := &stubService{}
	m := newTestModel(t, svc)

	updated, _ := m.Update(opFailedMsg{err: assert.AnError})
	m = updated.(*Model)
	assert.True(t, strings.Contains(m.View(), "error:"))

	// any key press clears the transient error line
	m, _ = keyPress(m, "h")
	assert.False(t, strings.Contains(m.View(), assert.AnError.Error()))
}
