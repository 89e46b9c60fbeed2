package coordinator

import (
	"context"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/ports"
)

// Connect establishes the push channel and starts consuming events.
// The channel transitions disconnected -> connecting -> connected;
// a failed start lands back in disconnected with the failure recorded
// separately from data errors, and Connect may be called again to
// retry.
func (c *Coordinator) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.connState != ports.StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.connState = ports.StateConnecting
	c.mu.Unlock()
	c.notifySubscribers()

	if err := c.channel.Start(ctx); err != nil {
		c.mu.Lock()
		c.connState = ports.StateDisconnected
		c.channelErr = err
		c.mu.Unlock()
		c.notifySubscribers()
		c.logger.Error("push channel start failed", "error", err)
		return err
	}

	c.mu.Lock()
	if c.disposed {
		// Disposed mid-connect; tear the fresh connection down.
		c.mu.Unlock()
		_ = c.channel.Stop()
		return ErrDisposed
	}
	c.connState = ports.StateConnected
	c.channelErr = nil
	c.pushSub = c.channel.Subscribe(c.handlePushEvent)
	c.mu.Unlock()
	c.notifySubscribers()
	c.logger.Info("push channel connected")
	return nil
}

// Dispose unsubscribes push listeners and disconnects the channel.
// Safe to call multiple times and when never connected. Completions
// of in-flight fetches arriving after disposal are dropped.
func (c *Coordinator) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	sub := c.pushSub
	c.pushSub = nil
	c.connState = ports.StateDisconnected
	c.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	if err := c.channel.Stop(); err != nil {
		c.logger.Warn("push channel stop failed", "error", err)
	}
	c.logger.Info("coordinator disposed")
}

// handlePushEvent applies one push event to the canonical collections.
// Events are processed in arrival order; the apply logic is idempotent
// and deduplicates by ID so any interleaving with pull completions
// converges to the same state.
func (c *Coordinator) handlePushEvent(ev ports.PushEvent) {
	switch e := ev.(type) {
	case ports.NewNotificationEvent:
		c.applyNewNotification(e.Notification)
	case ports.StatusUpdateEvent:
		c.applyStatusUpdate(e.ID, e.Read)
	}
}

// applyNewNotification up-converts the compact payload and prepends
// it to the collections. The toast gate receives the original compact
// payload, not the upconverted entity, and fires only while neither
// the sidebar nor the modal is open.
func (c *Coordinator) applyNewNotification(compact domain.CompactNotification) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if !containsID(c.notifications, compact.ID) {
		full := compact.ToNotification()
		c.notifications = append([]domain.Notification{full}, c.notifications...)
		if !full.Read && !containsID(c.unread, full.ID) {
			c.unread = append([]domain.Notification{full}, c.unread...)
		}
		c.total++
	}
	showToast := !c.sidebarOpen && !c.modalOpen
	c.mu.Unlock()
	c.notifySubscribers()

	if showToast {
		c.toast.Show(compact)
	}
}

// applyStatusUpdate flips the read flag of a known notification.
// Unknown IDs are a safe no-op. A flip to unread re-inserts the
// entity looked up from the history page, never a reconstruction.
func (c *Coordinator) applyStatusUpdate(id int64, read bool) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	var found *domain.Notification
	for i := range c.notifications {
		if c.notifications[i].ID == id {
			c.notifications[i].Read = read
			found = &c.notifications[i]
			break
		}
	}
	if read {
		c.unread = removeByID(c.unread, id)
	} else if found != nil && !containsID(c.unread, id) {
		c.unread = append([]domain.Notification{*found}, c.unread...)
	}
	c.mu.Unlock()
	c.notifySubscribers()
}

// SetShowCompactToastCallback registers the single active toast
// render target. A later registration replaces the earlier one;
// nil unregisters.
func (c *Coordinator) SetShowCompactToastCallback(fn func(domain.CompactNotification)) {
	c.toast.Set(fn)
}

func containsID(items []domain.Notification, id int64) bool {
	for _, n := range items {
		if n.ID == id {
			return true
		}
	}
	return false
}
