package coordinator

import (
	"context"
	"errors"

	"github.com/AzerQ/sed-notifications/internal/domain"
)

// LoadUnreadNotifications fetches page 1 of unread notifications with
// the active filters, at the unread fetch size. On failure the prior
// unread set is left untouched and the error is recorded. A response
// older than one already applied is discarded.
func (c *Coordinator) LoadUnreadNotifications(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.unreadSeq++
	seq := c.unreadSeq
	c.loadingUnread = true
	req := domain.PageRequest{Page: 1, PageSize: c.unreadPageSize, Filter: c.filters}
	c.mu.Unlock()
	c.notifySubscribers()

	page, err := c.svc.GetUnreadNotifications(ctx, req)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if seq == c.unreadSeq {
		c.loadingUnread = false
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.notifySubscribers()
		c.logger.Error("unread load failed", "error", err)
		return err
	}
	if seq <= c.unreadApplied {
		// A newer request already delivered; this response is stale.
		c.mu.Unlock()
		c.notifySubscribers()
		c.logger.Debug("discarded stale unread response", "seq", seq)
		return nil
	}
	c.unreadApplied = seq
	c.unread = page.Data
	if c.unread == nil {
		c.unread = []domain.Notification{}
	}
	c.lastErr = nil
	c.mu.Unlock()
	c.notifySubscribers()
	return nil
}

// LoadAllNotifications fetches the current page of the full history
// with the active filters. Pagination bounds come back from the
// server response, which is authoritative; the requested page is
// clamped to the returned page count.
func (c *Coordinator) LoadAllNotifications(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.allSeq++
	seq := c.allSeq
	c.loading = true
	req := domain.PageRequest{Page: c.currentPage, PageSize: c.pageSize, Filter: c.filters}
	c.mu.Unlock()
	c.notifySubscribers()

	page, err := c.svc.GetAllNotifications(ctx, req)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if seq == c.allSeq {
		c.loading = false
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.notifySubscribers()
		c.logger.Error("history load failed", "error", err)
		return err
	}
	if seq <= c.allApplied {
		c.mu.Unlock()
		c.notifySubscribers()
		c.logger.Debug("discarded stale history response", "seq", seq)
		return nil
	}
	c.allApplied = seq
	c.notifications = page.Data
	if c.notifications == nil {
		c.notifications = []domain.Notification{}
	}
	c.total = page.Total
	c.totalPages = page.TotalPages
	if c.totalPages < 1 {
		c.totalPages = 1
	}
	c.currentPage = domain.ClampPage(page.Page, c.totalPages)
	c.lastErr = nil
	c.mu.Unlock()
	c.notifySubscribers()
	return nil
}

// SetPage moves the history view to page n and refetches. Requests
// for the current page or for n <= 0 are no-ops, avoiding redundant
// history fetches.
func (c *Coordinator) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if n <= 0 || n == c.currentPage {
		c.mu.Unlock()
		return nil
	}
	c.currentPage = n
	c.mu.Unlock()
	c.notifySubscribers()
	return c.LoadAllNotifications(ctx)
}

// SetPageSize changes the history page size, resets to page 1 and
// refetches. An unchanged size is a no-op.
func (c *Coordinator) SetPageSize(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if n <= 0 || n == c.pageSize {
		c.mu.Unlock()
		return nil
	}
	c.pageSize = n
	c.currentPage = 1
	c.mu.Unlock()
	c.notifySubscribers()
	return c.LoadAllNotifications(ctx)
}

// SetFilters merges partial into the active filter set, resets to
// page 1 and refetches both collections concurrently. Filters apply
// uniformly to history and unread.
func (c *Coordinator) SetFilters(ctx context.Context, partial domain.Filter) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.filters = c.filters.Merge(partial)
	c.currentPage = 1
	c.mu.Unlock()
	c.notifySubscribers()
	return c.reloadBoth(ctx)
}

// ClearFilters drops every filter constraint, resets to page 1 and
// refetches both collections.
func (c *Coordinator) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.filters = domain.Filter{}
	c.currentPage = 1
	c.mu.Unlock()
	c.notifySubscribers()
	return c.reloadBoth(ctx)
}

func (c *Coordinator) reloadBoth(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.LoadUnreadNotifications(ctx)
	}()
	allErr := c.LoadAllNotifications(ctx)
	return errors.Join(allErr, <-errCh)
}
