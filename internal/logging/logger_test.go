// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureGlobal routes the global logger into a buffer for one test.
func captureGlobal(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	cfg.Output = &buf
	Init(cfg)
	return &buf
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_JSONAndLevel(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "warn", Format: "json"})

	l := Logger()
	l.Info().Msg("hidden")
	l.Warn().Str("item_id", "A").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	m := decodeLine(t, lines[0])
	if m["message"] != "shown" || m["level"] != "warn" || m["item_id"] != "A" {
		t.Errorf("entry = %v", m)
	}
	if _, ok := m["time"]; ok {
		t.Error("time field present with Timestamp disabled")
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "debug", Timestamp: true})

	l := WithComponent("trending")
	l.Debug().Msg("refreshed")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["component"] != "trending" {
		t.Errorf("component = %v, want trending", m["component"])
	}
	if _, ok := m["time"]; !ok {
		t.Error("time field missing with Timestamp enabled")
	}
}

func TestNew_LeavesGlobalAlone(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info"})

	var own bytes.Buffer
	l := New(Config{Level: "error", Format: "console", Output: &own})
	l.Warn().Msg("filtered")
	l.Error().Msg("boom")

	if strings.Contains(own.String(), "filtered") || !strings.Contains(own.String(), "boom") {
		t.Errorf("own output = %q", own.String())
	}
	if buf.Len() != 0 {
		t.Errorf("global output = %q, want empty", buf.String())
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info", zerolog.GlobalLevel())
	}
}
