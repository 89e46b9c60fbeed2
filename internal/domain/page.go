package domain

// PageRequest describes one page of a notification listing.
// Page is 1-based.
type PageRequest struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Filter   Filter `json:"filter"`
}

// Normalize clamps the request to sane bounds.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	return r
}

// Page is the server response for a page listing. Total, Page and
// TotalPages come back from the server and are authoritative; callers
// must adopt them rather than trusting locally requested values.
type Page struct {
	Data       []Notification `json:"data"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// Default page sizes. The unread fetch is larger than a history page
// because it feeds a compact always-visible panel.
const (
	DefaultPageSize       = 10
	DefaultUnreadPageSize = 50
)

// TotalPagesFor computes page count for a total and page size.
// An empty result still has one (empty) page.
func TotalPagesFor(total, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage clamps a 1-based page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
