// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package logging owns the process-wide zerolog logger.
//
// Components take a zerolog.Logger at construction and derive a child with
// a component field; only the CLI and request-scoped code touch the global
// logger directly:
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logger := logging.WithComponent("orchestrator")
//
//	ctx = logging.ContextWithNewRequestID(ctx)
//	ctx = logging.ContextWithUserID(ctx, userID)
//	logging.Ctx(ctx).Info().Msg("recommendation served")
//
// SlogHandler bridges slog-only libraries (sutureslog, Watermill) onto
// the same zerolog output.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
