// Package settings provides user preference models for toast display
// and per-event delivery channels. Both are persisted through the
// remote data service, not locally.
package settings

import (
	"fmt"
)

// Toast size constants.
const (
	ToastSizeSmall  = "small"
	ToastSizeMedium = "medium"
	ToastSizeLarge  = "large"
)

// Toast position constants.
const (
	ToastPositionTop    = "top"
	ToastPositionBottom = "bottom"
)

// Toast duration bounds, in seconds.
const (
	ToastDurationMin = 1
	ToastDurationMax = 10
)

// ToastSettings holds process-wide toast display preferences,
// loaded once at coordinator construction.
type ToastSettings struct {
	// Size is the toast card size: "small", "medium" or "large".
	Size string `json:"size"`

	// Duration is the display time in seconds, bounded to [1, 10].
	Duration int `json:"duration"`

	// Position is the screen edge toasts appear at: "top" or "bottom".
	Position string `json:"position"`
}

// DefaultToastSettings returns the defaults used when nothing is persisted.
func DefaultToastSettings() ToastSettings {
	return ToastSettings{
		Size:     ToastSizeMedium,
		Duration: 5,
		Position: ToastPositionBottom,
	}
}

// Validate validates the toast settings and returns an error if invalid.
func (s ToastSettings) Validate() error {
	switch s.Size {
	case ToastSizeSmall, ToastSizeMedium, ToastSizeLarge:
	default:
		return fmt.Errorf("invalid toast size: %s", s.Size)
	}
	if s.Duration < ToastDurationMin || s.Duration > ToastDurationMax {
		return fmt.Errorf("toast duration must be between %d and %d seconds, got %d",
			ToastDurationMin, ToastDurationMax, s.Duration)
	}
	switch s.Position {
	case ToastPositionTop, ToastPositionBottom:
	default:
		return fmt.Errorf("invalid toast position: %s", s.Position)
	}
	return nil
}

// Normalize clamps out-of-range values to defaults instead of failing.
func (s ToastSettings) Normalize() ToastSettings {
	def := DefaultToastSettings()
	switch s.Size {
	case ToastSizeSmall, ToastSizeMedium, ToastSizeLarge:
	default:
		s.Size = def.Size
	}
	if s.Duration < ToastDurationMin {
		s.Duration = ToastDurationMin
	}
	if s.Duration > ToastDurationMax {
		s.Duration = ToastDurationMax
	}
	switch s.Position {
	case ToastPositionTop, ToastPositionBottom:
	default:
		s.Position = def.Position
	}
	return s
}
