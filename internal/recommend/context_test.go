// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"testing"
	"time"
)

func TestNewContext_Buckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ts      time.Time
		tod     TimeOfDay
		season  Season
		weekend bool
	}{
		{name: "summer weekday lunch", ts: time.Date(2026, 7, 15, 13, 0, 0, 0, time.UTC), tod: Afternoon, season: Summer},
		{name: "winter saturday night", ts: time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC), tod: Night, season: Winter, weekend: true},
		{name: "spring morning", ts: time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC), tod: Morning, season: Spring},
		{name: "autumn evening", ts: time.Date(2026, 10, 14, 21, 59, 0, 0, time.UTC), tod: Evening, season: Autumn},
		{name: "early hours are night", ts: time.Date(2026, 10, 14, 5, 59, 0, 0, time.UTC), tod: Night, season: Autumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewContext(tt.ts)
			if c.TimeOfDay != tt.tod {
				t.Errorf("TimeOfDay = %s, want %s", c.TimeOfDay, tt.tod)
			}
			if c.Season != tt.season {
				t.Errorf("Season = %s, want %s", c.Season, tt.season)
			}
			if c.Weekend != tt.weekend {
				t.Errorf("Weekend = %v, want %v", c.Weekend, tt.weekend)
			}
			if c.GroupSize != 1 {
				t.Errorf("GroupSize = %d, want 1", c.GroupSize)
			}
		})
	}
}

func TestContext_Weather(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 7, 15, 13, 0, 0, 0, time.UTC)

	hot := NewContext(ts, WithWeather("Clear sky", 30))
	if !hot.IsHotWeather() || hot.IsColdWeather() || !hot.IsSunny() {
		t.Errorf("hot context flags wrong: hot=%v cold=%v sunny=%v", hot.IsHotWeather(), hot.IsColdWeather(), hot.IsSunny())
	}

	cold := NewContext(ts, WithWeather("Light Drizzle", 10))
	if !cold.IsColdWeather() || !cold.IsRainy() {
		t.Errorf("cold context flags wrong: cold=%v rainy=%v", cold.IsColdWeather(), cold.IsRainy())
	}

	unknown := NewContext(ts)
	if unknown.IsHotWeather() || unknown.IsColdWeather() {
		t.Error("context without a temperature should be neither hot nor cold")
	}

	group := NewContext(ts, WithGroupSize(0))
	if group.GroupSize != 1 {
		t.Errorf("WithGroupSize(0) -> %d, want 1", group.GroupSize)
	}
}

func TestContext_Multiplier(t *testing.T) {
	t.Parallel()

	summerLunch := time.Date(2026, 7, 15, 13, 0, 0, 0, time.UTC)
	winterNight := time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		ctx         ContextSnapshot
		tags        []string
		want        float64
		appropriate bool
	}{
		{
			name:        "no matching tags",
			ctx:         NewContext(summerLunch),
			tags:        []string{"spicy"},
			want:        1.0,
			appropriate: true,
		},
		{
			name:        "duplicate recommended tag counts twice",
			ctx:         NewContext(summerLunch, WithWeather("humid", 30)),
			tags:        []string{"cold", "light"},
			want:        1.3,
			appropriate: true,
		},
		{
			name:        "hot item in hot weather",
			ctx:         NewContext(summerLunch, WithWeather("humid", 30)),
			tags:        []string{"hot"},
			want:        0.8,
			appropriate: false,
		},
		{
			name:        "cold item in cold weather",
			ctx:         NewContext(summerLunch, WithWeather("windy", 5)),
			tags:        []string{"cold"},
			want:        0.8,
			appropriate: false,
		},
		{
			name:        "heavy item at night",
			ctx:         NewContext(winterNight),
			tags:        []string{"heavy", "hearty"},
			want:        0.8,
			appropriate: false,
		},
		{
			name:        "comfort at winter night",
			ctx:         NewContext(winterNight),
			tags:        []string{"comfort"},
			want:        1.2,
			appropriate: true,
		},
		{
			name: "clamped to two",
			ctx:  NewContext(time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC), WithWeather("rain", 30), WithGroupSize(4)),
			tags: []string{
				"cold", "refreshing", "light", "salad", "breakfast", "healthy", "fresh",
				"cooling", "comfort-food", "warm", "indoor", "sharing", "variety", "popular",
			},
			want:        2.0,
			appropriate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item := NewItem("x", "x", 10, nil, tt.tags)
			got := tt.ctx.Multiplier(item)
			if !almostEqualTol(got, tt.want, 1e-9) {
				t.Errorf("Multiplier() = %v, want %v", got, tt.want)
			}
			if ok := tt.ctx.IsAppropriate(item); ok != tt.appropriate {
				t.Errorf("IsAppropriate() = %v, want %v", ok, tt.appropriate)
			}
		})
	}
}

func TestContext_RecommendedTagsGroup(t *testing.T) {
	t.Parallel()

	c := NewContext(time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC), WithGroupSize(3))
	tags := c.RecommendedTags()

	want := []string{"lunch", "filling", "energy", "sharing", "variety", "popular"}
	if len(tags) != len(want) {
		t.Fatalf("RecommendedTags() = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("RecommendedTags()[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func almostEqualTol(a, b, tol float64) bool {
	d := a - b
	return d < tol && d > -tol
}
