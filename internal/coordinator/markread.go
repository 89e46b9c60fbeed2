package coordinator

import (
	"context"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

// MarkAsRead marks one notification read on the server, then flips
// the local entry in the history page and removes it from the unread
// set. Local state changes only after the remote call succeeds, so
// the UI never claims a success that did not happen. Marking an
// already-read notification is a no-op success.
func (c *Coordinator) MarkAsRead(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.mu.Unlock()

	if err := c.svc.MarkAsRead(ctx, id); err != nil {
		c.recordErr(err)
		c.logger.Error("mark as read failed", "id", id, "error", err)
		return err
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	for i := range c.notifications {
		if c.notifications[i].ID == id {
			c.notifications[i].Read = true
			break
		}
	}
	c.unread = removeByID(c.unread, id)
	c.lastErr = nil
	c.mu.Unlock()
	c.notifySubscribers()
	return nil
}

// MarkAllAsRead batches every current unread ID into one remote call.
// An empty unread set performs no network call. The batch is atomic
// from the client's perspective: success flips all local entries,
// failure flips none.
func (c *Coordinator) MarkAllAsRead(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if len(c.unread) == 0 {
		c.mu.Unlock()
		return nil
	}
	ids := make([]int64, len(c.unread))
	for i, n := range c.unread {
		ids[i] = n.ID
	}
	c.mu.Unlock()

	if err := c.svc.MarkMultipleAsRead(ctx, ids); err != nil {
		c.recordErr(err)
		c.logger.Error("mark all as read failed", "count", len(ids), "error", err)
		return err
	}

	marked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	for i := range c.notifications {
		if marked[c.notifications[i].ID] {
			c.notifications[i].Read = true
		}
	}
	c.unread = c.unread[:0]
	c.lastErr = nil
	c.mu.Unlock()
	c.notifySubscribers()
	return nil
}

// UserSettings fetches the per-event channel subscriptions.
func (c *Coordinator) UserSettings(ctx context.Context) (settings.UserNotificationSettings, error) {
	s, err := c.svc.GetUserNotificationSettings(ctx)
	if err != nil {
		c.recordErr(err)
		return settings.UserNotificationSettings{}, err
	}
	return s, nil
}

// SaveUserSettings validates and persists the per-event channel
// subscriptions.
func (c *Coordinator) SaveUserSettings(ctx context.Context, s settings.UserNotificationSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.svc.SaveUserNotificationSettings(ctx, s); err != nil {
		c.recordErr(err)
		return err
	}
	return nil
}

// SaveToastSettings validates and persists toast preferences, then
// adopts them locally. The local copy changes only on success.
func (c *Coordinator) SaveToastSettings(ctx context.Context, s settings.ToastSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.svc.SaveToastSettings(ctx, s); err != nil {
		c.recordErr(err)
		return err
	}
	c.mu.Lock()
	c.toastSettings = s
	c.mu.Unlock()
	c.notifySubscribers()
	return nil
}

func (c *Coordinator) recordErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.notifySubscribers()
}

func removeByID(items []domain.Notification, id int64) []domain.Notification {
	out := items[:0]
	for _, n := range items {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
