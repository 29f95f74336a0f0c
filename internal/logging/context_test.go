// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestAndUserIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || UserIDFromContext(ctx) != "" {
		t.Error("empty context should carry no ids")
	}

	ctx = ContextWithNewRequestID(ctx)
	if _, err := uuid.Parse(RequestIDFromContext(ctx)); err != nil {
		t.Errorf("generated request id is not a UUID: %v", err)
	}

	ctx = ContextWithUserID(ctx, "u1")
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Errorf("UserIDFromContext() = %q, want u1", got)
	}
}

func TestCtx_AddsIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), New(Config{Output: &buf}))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithUserID(ctx, "u1")

	Ctx(ctx).Info().Msg("served")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["request_id"] != "req-1" || m["user_id"] != "u1" {
		t.Errorf("entry = %v", m)
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info"})

	Ctx(context.Background()).Info().Msg("global")
	if !strings.Contains(buf.String(), `"global"`) {
		t.Errorf("output = %q, want global logger entry", buf.String())
	}
}
