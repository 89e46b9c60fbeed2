package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Filter holds filter criteria for notifications.
// Zero values mean "no constraint" for the corresponding field.
type Filter struct {
	Type     NotificationType `json:"type,omitempty"`
	Subtype  string           `json:"subtype,omitempty"`
	Author   string           `json:"author,omitempty"`
	DateFrom string           `json:"dateFrom,omitempty"` // RFC3339, inclusive
	DateTo   string           `json:"dateTo,omitempty"`   // RFC3339, inclusive
}

// IsEmpty reports whether no constraint is set.
func (f Filter) IsEmpty() bool {
	return f.Type == "" && f.Subtype == "" && f.Author == "" &&
		f.DateFrom == "" && f.DateTo == ""
}

// Validate checks enum and timestamp fields.
func (f Filter) Validate() error {
	if f.Type != "" && !f.Type.IsValid() {
		return fmt.Errorf("invalid filter type: %s", f.Type)
	}
	if f.DateFrom != "" {
		if _, err := time.Parse(time.RFC3339, f.DateFrom); err != nil {
			return fmt.Errorf("invalid dateFrom: %w", err)
		}
	}
	if f.DateTo != "" {
		if _, err := time.Parse(time.RFC3339, f.DateTo); err != nil {
			return fmt.Errorf("invalid dateTo: %w", err)
		}
	}
	return nil
}

// Merge overlays non-zero fields of other onto f and returns the result.
func (f Filter) Merge(other Filter) Filter {
	merged := f
	if other.Type != "" {
		merged.Type = other.Type
	}
	if other.Subtype != "" {
		merged.Subtype = other.Subtype
	}
	if other.Author != "" {
		merged.Author = other.Author
	}
	if other.DateFrom != "" {
		merged.DateFrom = other.DateFrom
	}
	if other.DateTo != "" {
		merged.DateTo = other.DateTo
	}
	return merged
}

// Matches checks if the notification matches the given filter criteria.
func (n *Notification) Matches(filter Filter) bool {
	if filter.Type != "" && n.Type != filter.Type {
		return false
	}
	if filter.Subtype != "" && n.Subtype != filter.Subtype {
		return false
	}
	if filter.Author != "" && n.Author != filter.Author {
		return false
	}
	if filter.DateFrom != "" && n.Date < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && n.Date > filter.DateTo {
		return false
	}
	return true
}

// Values encodes the filter as URL query values for transport.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Type != "" {
		v.Set("type", f.Type.String())
	}
	if f.Subtype != "" {
		v.Set("subtype", f.Subtype)
	}
	if f.Author != "" {
		v.Set("author", f.Author)
	}
	if f.DateFrom != "" {
		v.Set("dateFrom", f.DateFrom)
	}
	if f.DateTo != "" {
		v.Set("dateTo", f.DateTo)
	}
	return v
}

// FilterFromValues decodes a filter from URL query values.
func FilterFromValues(v url.Values) (Filter, error) {
	f := Filter{
		Subtype:  v.Get("subtype"),
		Author:   v.Get("author"),
		DateFrom: v.Get("dateFrom"),
		DateTo:   v.Get("dateTo"),
	}
	if t := v.Get("type"); t != "" {
		nt, err := ParseNotificationType(t)
		if err != nil {
			return Filter{}, err
		}
		f.Type = nt
	}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}
