package settings

import (
	"fmt"
)

// Delivery channel constants.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
	ChannelInApp = "inApp"
)

// ChannelSetting enables or disables one delivery channel.
type ChannelSetting struct {
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
}

// Validate validates the channel name.
func (c ChannelSetting) Validate() error {
	switch c.Channel {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp:
		return nil
	default:
		return fmt.Errorf("invalid delivery channel: %s", c.Channel)
	}
}

// EventSetting configures delivery for a single event type.
// Personal and substitute channel sets are independent: acting as
// yourself and acting on behalf of another are never conflated.
type EventSetting struct {
	EventID            int64            `json:"eventId"`
	EventName          string           `json:"eventName"`
	EventDescription   string           `json:"eventDescription,omitempty"`
	PersonalSettings   []ChannelSetting `json:"personalSettings"`
	SubstituteSettings []ChannelSetting `json:"substituteSettings"`
}

// Validate validates the event setting and all its channel entries.
func (e EventSetting) Validate() error {
	if e.EventName == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	for _, c := range e.PersonalSettings {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("event %q personal settings: %w", e.EventName, err)
		}
	}
	for _, c := range e.SubstituteSettings {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("event %q substitute settings: %w", e.EventName, err)
		}
	}
	return nil
}

// UserNotificationSettings holds the per-event channel subscriptions
// for one user.
type UserNotificationSettings struct {
	UserID        string         `json:"userId"`
	LastUpdated   string         `json:"lastUpdated"` // RFC3339
	EventSettings []EventSetting `json:"eventSettings"`
}

// Validate validates the settings document.
func (s UserNotificationSettings) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	for _, e := range s.EventSettings {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
