package coordinator

import (
	"context"
	"sync"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/ports"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

// fakeService is an in-memory DataService with call recording and
// error injection.
type fakeService struct {
	mu sync.Mutex

	unreadPage domain.Page
	allPage    domain.Page

	unreadErr   error
	allErr      error
	markErr     error
	settingsErr error

	toastSettings settings.ToastSettings
	userSettings  settings.UserNotificationSettings

	unreadCalls []domain.PageRequest
	allCalls    []domain.PageRequest
	markedIDs   []int64
	markedBatch [][]int64

	// hooks run inside the corresponding call while it is in flight,
	// letting tests interleave operations deterministically.
	onGetUnread func()
	onGetAll    func()
}

func newFakeService() *fakeService {
	return &fakeService{
		toastSettings: settings.DefaultToastSettings(),
	}
}

func (f *fakeService) GetUnreadNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	f.mu.Lock()
	f.unreadCalls = append(f.unreadCalls, req)
	hook := f.onGetUnread
	page, err := f.unreadPage, f.unreadErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return page, err
}

func (f *fakeService) GetAllNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	f.mu.Lock()
	f.allCalls = append(f.allCalls, req)
	hook := f.onGetAll
	page, err := f.allPage, f.allErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return page, err
}

func (f *fakeService) MarkAsRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

func (f *fakeService) MarkMultipleAsRead(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.markedBatch = append(f.markedBatch, append([]int64(nil), ids...))
	return nil
}

func (f *fakeService) GetUnreadCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unreadPage.Total, nil
}

func (f *fakeService) GetUserNotificationSettings(ctx context.Context) (settings.UserNotificationSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userSettings, f.settingsErr
}

func (f *fakeService) SaveUserNotificationSettings(ctx context.Context, s settings.UserNotificationSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return f.settingsErr
	}
	f.userSettings = s
	return nil
}

func (f *fakeService) GetToastSettings(ctx context.Context) (settings.ToastSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toastSettings, f.settingsErr
}

func (f *fakeService) SaveToastSettings(ctx context.Context, s settings.ToastSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return f.settingsErr
	}
	f.toastSettings = s
	return nil
}

func (f *fakeService) unreadCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.unreadCalls)
}

func (f *fakeService) allCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.allCalls)
}

// fakeChannel is a controllable PushChannel.
type fakeChannel struct {
	mu        sync.Mutex
	startErr  error
	started   bool
	stopCount int
	subs      []func(ports.PushEvent)
}

func (f *fakeChannel) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeChannel) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
	f.stopCount++
	return nil
}

func (f *fakeChannel) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

type fakeSub struct {
	cancel func()
}

func (s *fakeSub) Cancel() { s.cancel() }

func (f *fakeChannel) Subscribe(fn func(ports.PushEvent)) ports.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.subs)
	f.subs = append(f.subs, fn)
	return &fakeSub{cancel: func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs[idx] = nil
	}}
}

// emit delivers an event to all live subscribers synchronously.
func (f *fakeChannel) emit(ev ports.PushEvent) {
	f.mu.Lock()
	subs := append(([]func(ports.PushEvent))(nil), f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(ev)
		}
	}
}

func unreadNotif(id int64, title string) domain.Notification {
	return domain.Notification{
		ID:     id,
		Title:  title,
		Type:   domain.TypeDocument,
		Author: "r.ivanov",
		Date:   "2026-08-01T10:00:00Z",
		Read:   false,
	}
}
