// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay buckets the hour of a request.
type TimeOfDay string

// Time-of-day buckets.
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Season buckets the month of a request.
type Season string

// Seasons.
const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Temperature thresholds in degrees Celsius.
const (
	HotWeatherAbove  = 25.0
	ColdWeatherBelow = 15.0
)

// Contextual multiplier bounds.
const (
	minContextMultiplier = 0.1
	maxContextMultiplier = 2.0
)

// ContextSnapshot captures the situational signals for a single request.
// It is derived from a timestamp plus optional overrides and must not be
// modified after construction.
type ContextSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Season    Season    `json:"season"`
	Weekend   bool      `json:"weekend"`

	// Weather is a free-text descriptor such as "light rain" or "clear".
	Weather string `json:"weather,omitempty"`

	// Temperature in Celsius; only consulted when HasTemperature is set.
	Temperature    float64 `json:"temperature"`
	HasTemperature bool    `json:"has_temperature"`

	// GroupSize is the party size (at least 1).
	GroupSize int `json:"group_size"`

	// Location and Device are opaque pass-through values.
	Location string `json:"location,omitempty"`
	Device   string `json:"device,omitempty"`
}

// ContextOption overrides a derived context value.
type ContextOption func(*ContextSnapshot)

// WithWeather sets the weather descriptor and temperature.
func WithWeather(description string, temperature float64) ContextOption {
	return func(c *ContextSnapshot) {
		c.Weather = description
		c.Temperature = temperature
		c.HasTemperature = true
	}
}

// WithWeatherDescription sets the weather descriptor without a temperature.
func WithWeatherDescription(description string) ContextOption {
	return func(c *ContextSnapshot) {
		c.Weather = description
	}
}

// WithGroupSize sets the party size; values below 1 become 1.
func WithGroupSize(n int) ContextOption {
	return func(c *ContextSnapshot) {
		c.GroupSize = max(1, n)
	}
}

// WithTimeOfDay overrides the derived time-of-day bucket.
func WithTimeOfDay(t TimeOfDay) ContextOption {
	return func(c *ContextSnapshot) {
		c.TimeOfDay = t
	}
}

// WithSeason overrides the derived season.
func WithSeason(s Season) ContextOption {
	return func(c *ContextSnapshot) {
		c.Season = s
	}
}

// WithLocation sets the opaque location value.
func WithLocation(location string) ContextOption {
	return func(c *ContextSnapshot) {
		c.Location = location
	}
}

// WithDevice sets the opaque device value.
func WithDevice(device string) ContextOption {
	return func(c *ContextSnapshot) {
		c.Device = device
	}
}

// NewContext derives a snapshot from ts and applies the overrides in order.
func NewContext(ts time.Time, opts ...ContextOption) ContextSnapshot {
	c := ContextSnapshot{
		Timestamp: ts,
		TimeOfDay: timeOfDayFor(ts.Hour()),
		Season:    seasonFor(ts.Month()),
		Weekend:   ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday,
		GroupSize: 1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func timeOfDayFor(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

func seasonFor(month time.Month) Season {
	switch {
	case month >= time.March && month <= time.May:
		return Spring
	case month >= time.June && month <= time.August:
		return Summer
	case month >= time.September && month <= time.November:
		return Autumn
	default:
		return Winter
	}
}

// IsHotWeather reports a known temperature above 25C.
func (c ContextSnapshot) IsHotWeather() bool {
	return c.HasTemperature && c.Temperature > HotWeatherAbove
}

// IsColdWeather reports a known temperature below 15C.
func (c ContextSnapshot) IsColdWeather() bool {
	return c.HasTemperature && c.Temperature < ColdWeatherBelow
}

// IsRainy reports whether the weather mentions rain, storm or drizzle.
func (c ContextSnapshot) IsRainy() bool {
	w := strings.ToLower(c.Weather)
	return strings.Contains(w, "rain") || strings.Contains(w, "storm") || strings.Contains(w, "drizzle")
}

// IsSunny reports whether the weather mentions sun or clear skies.
func (c ContextSnapshot) IsSunny() bool {
	w := strings.ToLower(c.Weather)
	return strings.Contains(w, "sunny") || strings.Contains(w, "clear")
}

// IsGroupOrder reports a party larger than one.
func (c ContextSnapshot) IsGroupOrder() bool {
	return c.GroupSize > 1
}

// RecommendedTags returns the tags favored by the current context. A tag may
// appear more than once when several buckets recommend it; each occurrence
// counts toward the multiplier.
func (c ContextSnapshot) RecommendedTags() []string {
	var tags []string

	switch {
	case c.IsHotWeather():
		tags = append(tags, "cold", "refreshing", "light", "salad")
	case c.IsColdWeather():
		tags = append(tags, "hot", "warm", "comfort-food", "soup")
	}

	switch c.TimeOfDay {
	case Morning:
		tags = append(tags, "breakfast", "light", "healthy")
	case Afternoon:
		tags = append(tags, "lunch", "filling", "energy")
	case Evening:
		tags = append(tags, "dinner", "hearty", "satisfying")
	case Night:
		tags = append(tags, "light", "quick", "comfort")
	}

	switch c.Season {
	case Summer:
		tags = append(tags, "fresh", "light", "cooling")
	case Winter:
		tags = append(tags, "warming", "hearty", "comfort")
	}

	switch {
	case c.IsRainy():
		tags = append(tags, "comfort-food", "warm", "indoor")
	case c.IsSunny():
		tags = append(tags, "fresh", "outdoor", "light")
	}

	if c.IsGroupOrder() {
		tags = append(tags, "sharing", "variety", "popular")
	}

	return tags
}

// Multiplier scores how well an item fits the context, in [0.1, 2.0].
func (c ContextSnapshot) Multiplier(item *Item) float64 {
	if item == nil {
		return 1.0
	}

	m := 1.0
	for _, tag := range c.RecommendedTags() {
		if item.HasTag(tag) {
			m += 0.1
		}
	}

	if c.IsHotWeather() && item.IsHot() {
		m -= 0.2
	} else if c.IsColdWeather() && item.IsCold() {
		m -= 0.2
	}

	if c.TimeOfDay == Night && item.HasTag(TagHeavy) {
		m -= 0.3
	}

	return clamp(m, minContextMultiplier, maxContextMultiplier)
}

// IsAppropriate reports whether the item's multiplier is at least 1.0.
func (c ContextSnapshot) IsAppropriate(item *Item) bool {
	return c.Multiplier(item) >= 1.0
}

// String describes the context for logs.
func (c ContextSnapshot) String() string {
	weather := c.Weather
	if weather == "" {
		weather = "unknown weather"
	}
	if !c.HasTemperature {
		return fmt.Sprintf("%s %s in %s", c.TimeOfDay, c.Season, weather)
	}
	return fmt.Sprintf("%s %s in %s (%.1fC)", c.TimeOfDay, c.Season, weather, c.Temperature)
}
