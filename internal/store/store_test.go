package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *Store, n domain.Notification) domain.Notification {
	t.Helper()
	created, err := s.Create(context.Background(), n)
	require.NoError(t, err)
	return created
}

func sampleNotification(title, date string, read bool) domain.Notification {
	return domain.Notification{
		Title:  title,
		Type:   domain.TypeDocument,
		Author: "r.ivanov",
		Date:   date,
		Read:   read,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n := sampleNotification("Contract review", "2026-08-01T10:00:00Z", false)
	n.Subtype = "review"
	n.CardURL = "/docs/15"
	n.Actions = []domain.NotificationAction{
		{Name: "approve", Label: "Approve", URL: "appscheme://approve?docId=15"},
	}

	created := seed(t, s, n)
	require.Positive(t, created.ID)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "appscheme://approve?docId=15", got.Actions[0].URL)
}

func TestGetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_PaginationAndOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed(t, s, sampleNotification("oldest", "2026-08-01T10:00:00Z", true))
	seed(t, s, sampleNotification("middle", "2026-08-02T10:00:00Z", false))
	seed(t, s, sampleNotification("newest", "2026-08-03T10:00:00Z", false))

	page, err := s.List(ctx, domain.PageRequest{Page: 1, PageSize: 2}, false)
	require.NoError(t, err)

	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "newest", page.Data[0].Title)
	assert.Equal(t, "middle", page.Data[1].Title)

	page2, err := s.List(ctx, domain.PageRequest{Page: 2, PageSize: 2}, false)
	require.NoError(t, err)
	require.Len(t, page2.Data, 1)
	assert.Equal(t, "oldest", page2.Data[0].Title)
}

func TestList_ClampsOutOfRangePage(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, sampleNotification("only", "2026-08-01T10:00:00Z", false))

	page, err := s.List(context.Background(), domain.PageRequest{Page: 50, PageSize: 10}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Data, 1)
}

func TestList_UnreadOnly(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, sampleNotification("read one", "2026-08-01T10:00:00Z", true))
	seed(t, s, sampleNotification("unread one", "2026-08-02T10:00:00Z", false))

	page, err := s.List(context.Background(), domain.PageRequest{Page: 1, PageSize: 10}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "unread one", page.Data[0].Title)
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := sampleNotification("doc", "2026-08-01T10:00:00Z", false)
	task := sampleNotification("task", "2026-08-05T10:00:00Z", false)
	task.Type = domain.TypeTask
	task.Author = "a.petrova"
	seed(t, s, doc)
	seed(t, s, task)

	tests := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{"by type", domain.Filter{Type: domain.TypeTask}, []string{"task"}},
		{"by author", domain.Filter{Author: "r.ivanov"}, []string{"doc"}},
		{"by date range", domain.Filter{DateFrom: "2026-08-03T00:00:00Z"}, []string{"task"}},
		{"no match", domain.Filter{Author: "nobody"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.List(ctx, domain.PageRequest{Page: 1, PageSize: 10, Filter: tt.filter}, false)
			require.NoError(t, err)
			titles := make([]string, 0, len(page.Data))
			for _, n := range page.Data {
				titles = append(titles, n.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestMarkRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := seed(t, s, sampleNotification("pending", "2026-08-01T10:00:00Z", false))

	require.NoError(t, s.MarkRead(ctx, created.ID))
	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)

	// Idempotent, including unknown IDs.
	assert.NoError(t, s.MarkRead(ctx, created.ID))
	assert.NoError(t, s.MarkRead(ctx, 9999))
}

func TestMarkManyRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := seed(t, s, sampleNotification("a", "2026-08-01T10:00:00Z", false))
	b := seed(t, s, sampleNotification("b", "2026-08-02T10:00:00Z", false))
	c := seed(t, s, sampleNotification("c", "2026-08-03T10:00:00Z", false))

	require.NoError(t, s.MarkManyRead(ctx, []int64{a.ID, b.ID}))

	count, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := s.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)

	// Empty batch is a no-op.
	assert.NoError(t, s.MarkManyRead(ctx, nil))
}

func TestSetRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := seed(t, s, sampleNotification("toggle", "2026-08-01T10:00:00Z", false))

	got, err := s.SetRead(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Read)

	got, err = s.SetRead(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Read)

	_, err = s.SetRead(ctx, 9999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToastSettingsPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Defaults before anything was saved.
	got, err := s.GetToastSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultToastSettings(), got)

	custom := settings.ToastSettings{Size: settings.ToastSizeLarge, Duration: 9, Position: settings.ToastPositionTop}
	require.NoError(t, s.SaveToastSettings(ctx, custom))

	got, err = s.GetToastSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	// Upsert replaces, does not duplicate.
	custom.Duration = 3
	require.NoError(t, s.SaveToastSettings(ctx, custom))
	got, err = s.GetToastSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Duration)
}

func TestUserSettingsPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserSettings(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNotFound)

	doc := settings.UserNotificationSettings{
		UserID:      "u-1",
		LastUpdated: "2026-08-20T12:00:00Z",
		EventSettings: []settings.EventSetting{{
			EventID:          4,
			EventName:        "task.assigned",
			PersonalSettings: []settings.ChannelSetting{{Channel: settings.ChannelPush, Enabled: true}},
		}},
	}
	require.NoError(t, s.SaveUserSettings(ctx, doc))

	got, err := s.GetUserSettings(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}
