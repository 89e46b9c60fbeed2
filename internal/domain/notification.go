// Package domain provides the domain layer for notifications.
// It contains the canonical notification entity, its compact push
// projection, filters and pagination value objects.
package domain

import (
	"fmt"
	"time"
)

// NotificationType classifies a notification by its originating area.
type NotificationType string

const (
	TypeDocument NotificationType = "document"
	TypeTask     NotificationType = "task"
	TypeSystem   NotificationType = "system"
	TypeOther    NotificationType = "other"
)

// IsValid checks if the notification type is valid.
func (t NotificationType) IsValid() bool {
	switch t {
	case TypeDocument, TypeTask, TypeSystem, TypeOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t NotificationType) String() string {
	return string(t)
}

// NotificationAction is an operation embedded in a notification.
// URL carries an action identifier plus query parameters in the
// appscheme:// format dispatched by the actions registry.
type NotificationAction struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Notification is the canonical notification entity.
//
// The same ID may appear simultaneously in the unread set and the
// history page; those are independent views, not partitions, and the
// Read flag must stay identical between them after any mutation.
type Notification struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Type        NotificationType     `json:"type"`
	Subtype     string               `json:"subtype"`
	Description string               `json:"description"`
	Author      string               `json:"author"`
	Date        string               `json:"date"` // RFC3339
	Read        bool                 `json:"read"`
	Starred     bool                 `json:"starred"`
	CardURL     string               `json:"cardUrl,omitempty"`
	Delegate    bool                 `json:"delegate"`
	Actions     []NotificationAction `json:"actions"`
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID <= 0 {
		return fmt.Errorf("invalid notification ID: %d", n.ID)
	}
	if n.Title == "" {
		return fmt.Errorf("notification title cannot be empty")
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("invalid notification type: %s", n.Type)
	}
	if n.Date == "" {
		return fmt.Errorf("notification date cannot be empty")
	}
	if _, err := time.Parse(time.RFC3339, n.Date); err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// CompactNotification is the reduced projection delivered on the push
// channel and rendered in toasts. It lacks Description, Starred,
// Delegate and Actions.
type CompactNotification struct {
	ID      int64            `json:"id"`
	Title   string           `json:"title"`
	Type    NotificationType `json:"type"`
	Subtype string           `json:"subtype,omitempty"`
	Author  string           `json:"author"`
	Date    string           `json:"date"`
	Read    bool             `json:"read"`
	CardURL string           `json:"cardUrl,omitempty"`
}

// ToNotification up-converts the compact projection to a full entity
// with empty defaults. The description stays empty until the next full
// history reload; there is no lazy backfill.
func (c CompactNotification) ToNotification() Notification {
	return Notification{
		ID:          c.ID,
		Title:       c.Title,
		Type:        c.Type,
		Subtype:     c.Subtype,
		Description: "",
		Author:      c.Author,
		Date:        c.Date,
		Read:        c.Read,
		Starred:     false,
		CardURL:     c.CardURL,
		Delegate:    false,
		Actions:     []NotificationAction{},
	}
}

// Compact reduces a full notification to its push projection.
func (n Notification) Compact() CompactNotification {
	return CompactNotification{
		ID:      n.ID,
		Title:   n.Title,
		Type:    n.Type,
		Subtype: n.Subtype,
		Author:  n.Author,
		Date:    n.Date,
		Read:    n.Read,
		CardURL: n.CardURL,
	}
}

// ParseNotificationType parses a string into a NotificationType.
func ParseNotificationType(t string) (NotificationType, error) {
	nt := NotificationType(t)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", t)
	}
	return nt, nil
}
