// Package ports defines application boundary interfaces used by the
// notification coordinator: the remote data service and the push
// event channel.
package ports

import (
	"context"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

// DataService defines the remote notification backend operations.
// All calls are network-bound and may fail; callers catch and record
// errors rather than letting them escape.
type DataService interface {
	GetUnreadNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error)
	GetAllNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkMultipleAsRead(ctx context.Context, ids []int64) error
	GetUnreadCount(ctx context.Context) (int, error)
	GetUserNotificationSettings(ctx context.Context) (settings.UserNotificationSettings, error)
	SaveUserNotificationSettings(ctx context.Context, s settings.UserNotificationSettings) error
	GetToastSettings(ctx context.Context) (settings.ToastSettings, error)
	SaveToastSettings(ctx context.Context, s settings.ToastSettings) error
}

// PushChannel defines the asynchronous push event source.
type PushChannel interface {
	// Start establishes the connection. It may take multiple seconds
	// and may fail; it does not retry on its own.
	Start(ctx context.Context) error
	// Stop tears the connection down. Safe to call when never started.
	Stop() error
	// Subscribe registers a listener for push events. The returned
	// subscription must be cancelled to stop delivery.
	Subscribe(fn func(PushEvent)) Subscription
	// Connected reports whether the channel is currently established.
	Connected() bool
}

// Subscription is a handle to an active event subscription.
type Subscription interface {
	// Cancel removes the listener. Idempotent.
	Cancel()
}

// PushEvent is the closed set of events a push channel delivers.
// Exactly NewNotificationEvent and StatusUpdateEvent implement it.
type PushEvent interface {
	pushEvent()
}

// NewNotificationEvent signals a freshly created notification,
// delivered as its compact projection.
type NewNotificationEvent struct {
	Notification domain.CompactNotification
}

// StatusUpdateEvent signals a read-state change made elsewhere
// (another device, another session).
type StatusUpdateEvent struct {
	ID   int64
	Read bool
}

func (NewNotificationEvent) pushEvent() {}
func (StatusUpdateEvent) pushEvent()    {}

// ConnectionState tracks push channel health.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// String returns the string representation of the state.
func (s ConnectionState) String() string {
	return string(s)
}
