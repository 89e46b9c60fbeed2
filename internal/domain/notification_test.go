package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validNotification() Notification {
	return Notification{
		ID:     1,
		Title:  "Document approved",
		Type:   TypeDocument,
		Author: "r.ivanov",
		Date:   "2026-08-01T10:00:00Z",
	}
}

func TestNotification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Notification)
		wantErr bool
	}{
		{"valid", func(n *Notification) {}, false},
		{"zero id", func(n *Notification) { n.ID = 0 }, true},
		{"negative id", func(n *Notification) { n.ID = -4 }, true},
		{"empty title", func(n *Notification) { n.Title = "" }, true},
		{"invalid type", func(n *Notification) { n.Type = "banner" }, true},
		{"empty date", func(n *Notification) { n.Date = "" }, true},
		{"malformed date", func(n *Notification) { n.Date = "yesterday" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNotification()
			tt.mutate(&n)
			err := n.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationType_IsValid(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want bool
	}{
		{TypeDocument, true},
		{TypeTask, true},
		{TypeSystem, true},
		{TypeOther, true},
		{"", false},
		{"email", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.IsValid())
		})
	}
}

func TestCompactNotification_ToNotification(t *testing.T) {
	c := CompactNotification{
		ID:      42,
		Title:   "Task assigned",
		Type:    TypeTask,
		Subtype: "assignment",
		Author:  "a.petrova",
		Date:    "2026-08-02T09:30:00Z",
		Read:    false,
		CardURL: "/tasks/42",
	}

	n := c.ToNotification()

	assert.Equal(t, int64(42), n.ID)
	assert.Equal(t, "Task assigned", n.Title)
	assert.Equal(t, TypeTask, n.Type)
	assert.Equal(t, "assignment", n.Subtype)
	assert.Equal(t, "a.petrova", n.Author)
	assert.False(t, n.Read)
	assert.Equal(t, "/tasks/42", n.CardURL)

	// Lossy upconvert: fields absent from the projection get empty defaults.
	assert.Empty(t, n.Description)
	assert.False(t, n.Starred)
	assert.False(t, n.Delegate)
	assert.NotNil(t, n.Actions)
	assert.Empty(t, n.Actions)
}

func TestNotification_Compact_RoundTripFields(t *testing.T) {
	n := validNotification()
	n.Subtype = "approval"
	n.CardURL = "/docs/1"
	n.Read = true

	c := n.Compact()

	assert.Equal(t, n.ID, c.ID)
	assert.Equal(t, n.Title, c.Title)
	assert.Equal(t, n.Subtype, c.Subtype)
	assert.Equal(t, n.CardURL, c.CardURL)
	assert.True(t, c.Read)
}

func TestParseNotificationType(t *testing.T) {
	nt, err := ParseNotificationType("system")
	assert.NoError(t, err)
	assert.Equal(t, TypeSystem, nt)

	_, err = ParseNotificationType("bogus")
	assert.Error(t, err)
}
