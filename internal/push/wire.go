// Package push implements the push event channel over WebSocket,
// including the wire format shared with the server side.
package push

import (
	"encoding/json"
	"fmt"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/ports"
)

// Wire event kinds.
const (
	EventNewNotification = "new_notification"
	EventStatusUpdate    = "status_update"
)

// Envelope is the JSON frame carried on the WebSocket.
type Envelope struct {
	Event        string                      `json:"event"`
	Notification *domain.CompactNotification `json:"notification,omitempty"`
	ID           int64                       `json:"id,omitempty"`
	Read         bool                        `json:"read,omitempty"`
}

// NewNotificationFrame builds the frame for a freshly created notification.
func NewNotificationFrame(n domain.CompactNotification) Envelope {
	return Envelope{Event: EventNewNotification, Notification: &n}
}

// StatusUpdateFrame builds the frame for a read-state change.
func StatusUpdateFrame(id int64, read bool) Envelope {
	return Envelope{Event: EventStatusUpdate, ID: id, Read: read}
}

// Decode parses a wire frame into a typed push event.
func Decode(data []byte) (ports.PushEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("push: decode frame: %w", err)
	}
	switch env.Event {
	case EventNewNotification:
		if env.Notification == nil {
			return nil, fmt.Errorf("push: %s frame without notification", EventNewNotification)
		}
		return ports.NewNotificationEvent{Notification: *env.Notification}, nil
	case EventStatusUpdate:
		return ports.StatusUpdateEvent{ID: env.ID, Read: env.Read}, nil
	default:
		return nil, fmt.Errorf("push: unknown event %q", env.Event)
	}
}
