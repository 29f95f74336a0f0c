// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package mlbridge

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/menurec/internal/metrics"
)

// halfOpenTrials is the number of trial calls let through while half-open.
const halfOpenTrials = 3

// bridgeBreaker trips after a failure ratio over a minimum request count
// and mirrors its state into the circuit breaker metrics. The gauge value
// is gobreaker's state ordinal: 0 closed, 1 half-open, 2 open.
type bridgeBreaker struct {
	name   string
	cb     *gobreaker.CircuitBreaker[*Response]
	logger zerolog.Logger
}

//nolint:gocritic // hugeParam: Config is passed once at startup
func newBridgeBreaker(cfg Config, logger zerolog.Logger) *bridgeBreaker {
	b := &bridgeBreaker{name: cfg.BreakerName, logger: logger}

	minRequests, ratio := cfg.BreakerMinRequests, cfg.BreakerFailureRatio
	b.cb = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        b.name,
		MaxRequests: halfOpenTrials,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < minRequests {
				return false
			}
			observed := float64(c.TotalFailures) / float64(c.Requests)
			if observed < ratio {
				return false
			}
			b.logger.Warn().
				Uint32("requests", c.Requests).
				Uint32("failures", c.TotalFailures).
				Float64("failure_ratio", observed).
				Msg("bridge failing, opening circuit")
			return true
		},
		OnStateChange: b.transition,
	})

	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(float64(gobreaker.StateClosed))
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return b
}

func (b *bridgeBreaker) transition(_ string, from, to gobreaker.State) {
	b.logger.Info().Stringer("from", from).Stringer("to", to).Msg("bridge circuit changed state")
	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(float64(to))
	metrics.CircuitBreakerTransitions.WithLabelValues(b.name, from.String(), to.String()).Inc()
	if to == gobreaker.StateClosed {
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	}
}

// state is "closed", "half-open" or "open".
func (b *bridgeBreaker) state() string {
	return b.cb.State().String()
}

// run executes fn through the breaker. Calls refused by an open or
// saturated breaker wrap ErrBridgeUnavailable.
func (b *bridgeBreaker) run(fn func() (*Response, error)) (*Response, error) {
	resp, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, fmt.Errorf("%w: %w", ErrBridgeUnavailable, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}
}
