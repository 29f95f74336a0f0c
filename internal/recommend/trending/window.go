// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package trending

import (
	"strings"
	"time"
)

// Window is a normalized trending window label.
type Window string

// Supported windows.
const (
	WindowHour  Window = "1h"
	WindowDay   Window = "24h"
	WindowWeek  Window = "7d"
	WindowMonth Window = "30d"
)

// DefaultWindow is used for unrecognized labels.
const DefaultWindow = WindowDay

// ParseWindow normalizes a label. "hour", "day", "week" and "month" are
// accepted as aliases; anything else is DefaultWindow.
func ParseWindow(label string) Window {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "1h", "hour":
		return WindowHour
	case "24h", "day":
		return WindowDay
	case "7d", "week":
		return WindowWeek
	case "30d", "month":
		return WindowMonth
	default:
		return DefaultWindow
	}
}

// Duration returns the span the window covers.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowHour:
		return time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Cutoff returns the start of the window ending at now.
func (w Window) Cutoff(now time.Time) time.Time {
	return now.Add(-w.Duration())
}
