// Package coordinator owns the canonical notification collections and
// mediates between the paginated data service and the push event
// channel. It reconciles pull results with push events, drives
// pagination and filter state, exposes read-state mutations and gates
// toast visibility based on which surfaces are open.
package coordinator

import (
	"context"
	"errors"
	"sync"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/logging"
	"github.com/AzerQ/sed-notifications/internal/ports"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

// ErrDisposed is returned by operations invoked after Dispose.
var ErrDisposed = errors.New("coordinator is disposed")

// Coordinator is the notification state and coordination layer.
//
// The two collections it owns are independent views, not partitions:
// the history page holds the current page of all notifications, the
// unread set holds the most recent unread ones across pages, capped
// at the unread fetch size. The same ID may live in both; their Read
// flags are kept identical after every mutation.
type Coordinator struct {
	mu sync.Mutex

	svc     ports.DataService
	channel ports.PushChannel
	logger  logging.Logger

	notifications []domain.Notification // current history page
	unread        []domain.Notification // bounded cross-page unread set

	currentPage    int
	pageSize       int
	unreadPageSize int
	totalPages     int
	total          int
	filters        domain.Filter

	loading       bool
	loadingUnread bool

	connState  ports.ConnectionState
	lastErr    error // data operation failures
	channelErr error // push channel health failures

	sidebarOpen bool
	modalOpen   bool

	toast         toastGate
	toastSettings settings.ToastSettings

	// Monotonic request sequencing per fetch kind. A response is
	// applied only if no response from a later request landed first,
	// so out-of-order completions cannot clobber fresher state.
	allSeq        uint64
	allApplied    uint64
	unreadSeq     uint64
	unreadApplied uint64

	pushSub  ports.Subscription
	disposed bool

	subscribers map[uint64]func()
	nextSubID   uint64
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger.With("component", "coordinator")
	}
}

// WithPageSize sets the history page size.
func WithPageSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithUnreadPageSize sets the unread fetch size.
func WithUnreadPageSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.unreadPageSize = n
		}
	}
}

// New constructs a Coordinator over the given collaborators and loads
// the persisted toast settings. A settings load failure is recorded
// but not fatal; defaults apply.
func New(ctx context.Context, svc ports.DataService, channel ports.PushChannel, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:            svc,
		channel:        channel,
		logger:         logging.Nop(),
		notifications:  []domain.Notification{},
		unread:         []domain.Notification{},
		currentPage:    1,
		pageSize:       domain.DefaultPageSize,
		unreadPageSize: domain.DefaultUnreadPageSize,
		totalPages:     1,
		connState:      ports.StateDisconnected,
		toastSettings:  settings.DefaultToastSettings(),
		subscribers:    make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(c)
	}

	ts, err := svc.GetToastSettings(ctx)
	if err != nil {
		c.logger.Warn("failed to load toast settings, using defaults", "error", err)
		c.lastErr = err
	} else {
		c.toastSettings = ts.Normalize()
	}

	return c
}

// Subscription is a handle to a change subscription.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the subscriber. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers fn to run after every state change. The handle
// must be cancelled when the consumer unmounts so repeated
// mount/unmount cycles do not grow the subscriber list.
func (c *Coordinator) Subscribe(fn func()) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return &Subscription{cancel: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}}
}

// notifySubscribers invokes all subscribers outside the lock.
func (c *Coordinator) notifySubscribers() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Notifications returns a copy of the current history page.
func (c *Coordinator) Notifications() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notification(nil), c.notifications...)
}

// Unread returns a copy of the unread set.
func (c *Coordinator) Unread() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notification(nil), c.unread...)
}

// UnreadCount returns the size of the unread set. This is bounded by
// the unread fetch size, not the true unread universe.
func (c *Coordinator) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.unread)
}

// CurrentPage returns the 1-based history page number.
func (c *Coordinator) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// PageSize returns the history page size.
func (c *Coordinator) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// TotalPages returns the server-reported page count.
func (c *Coordinator) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// Total returns the server-reported total notification count.
func (c *Coordinator) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Filters returns the active filter set.
func (c *Coordinator) Filters() domain.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Loading reports whether a history fetch is in flight.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadingUnread reports whether an unread fetch is in flight.
func (c *Coordinator) LoadingUnread() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingUnread
}

// Err returns the last recorded data operation error, if any.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ChannelErr returns the last push channel failure, if any.
func (c *Coordinator) ChannelErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelErr
}

// ConnectionState returns the push channel state.
func (c *Coordinator) ConnectionState() ports.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connState
}

// ToastSettings returns the active toast display preferences.
func (c *Coordinator) ToastSettings() settings.ToastSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toastSettings
}

// SetSidebarOpen records whether the unread side panel is visible.
func (c *Coordinator) SetSidebarOpen(open bool) {
	c.mu.Lock()
	c.sidebarOpen = open
	c.mu.Unlock()
	c.notifySubscribers()
}

// SetModalOpen records whether the history modal is visible.
func (c *Coordinator) SetModalOpen(open bool) {
	c.mu.Lock()
	c.modalOpen = open
	c.mu.Unlock()
	c.notifySubscribers()
}

// SidebarOpen reports whether the side panel is visible.
func (c *Coordinator) SidebarOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebarOpen
}

// ModalOpen reports whether the history modal is visible.
func (c *Coordinator) ModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalOpen
}
