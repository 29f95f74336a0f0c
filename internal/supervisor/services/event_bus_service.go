// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// EventRouter is the lifecycle subset of events.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventBusService runs the event router. A watermill router cannot be run
// twice, so an unexpected stop is final: the service asks not to be
// restarted and publishers fall back to applying events inline.
type EventBusService struct {
	bus    EventRouter
	logger zerolog.Logger
	name   string
}

// NewEventBusService wraps bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventBusService(bus EventRouter, logger zerolog.Logger) *EventBusService {
	return &EventBusService{
		bus:    bus,
		logger: logger.With().Str("service", "event-bus").Logger(),
		name:   "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	err := s.bus.Run(ctx)
	if cerr := s.bus.Close(); cerr != nil {
		s.logger.Warn().Err(cerr).Msg("event bus close failed")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%w: event bus stopped: %w", suture.ErrDoNotRestart, err)
	}
	s.logger.Warn().Msg("event bus stopped unexpectedly")
	return suture.ErrDoNotRestart
}

func (s *EventBusService) String() string {
	return s.name
}
