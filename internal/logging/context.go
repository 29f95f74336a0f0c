// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type scopeKey struct{}

// scope is the request-scoped logging state. It is stored by value, so
// each ContextWith call yields an independent copy.
type scope struct {
	logger    *zerolog.Logger
	requestID string
	userID    string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, update func(*scope)) context.Context {
	s := scopeFrom(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = id })
}

func ContextWithNewRequestID(ctx context.Context) context.Context {
	return ContextWithRequestID(ctx, GenerateRequestID())
}

// RequestIDFromContext returns "" when no id was attached.
func RequestIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return withScope(ctx, func(s *scope) { s.userID = userID })
}

// UserIDFromContext returns "" when no user was attached.
func UserIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).userID
}

// ContextWithLogger makes Ctx use logger instead of the global one.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return withScope(ctx, func(s *scope) { s.logger = &logger })
}

// LoggerFromContext returns the attached logger or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return *l
	}
	return Logger()
}

// Ctx returns the context's logger with request_id and user_id fields.
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("writing health response")
func Ctx(ctx context.Context) *zerolog.Logger {
	s := scopeFrom(ctx)
	base := LoggerFromContext(ctx)
	fields := base.With()
	if s.requestID != "" {
		fields = fields.Str("request_id", s.requestID)
	}
	if s.userID != "" {
		fields = fields.Str("user_id", s.userID)
	}
	l := fields.Logger()
	return &l
}
