// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// EndpointService serves the operator endpoints (metrics and health)
// under supervision. Every start binds a fresh listener, so a restarted
// service recovers from a lost socket.
type EndpointService struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          zerolog.Logger

	mu    sync.RWMutex
	bound string
}

// NewEndpointService serves handler on addr. A non-positive
// shutdownTimeout means 10s.
func NewEndpointService(addr string, handler http.Handler, shutdownTimeout time.Duration, logger zerolog.Logger) *EndpointService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &EndpointService{
		addr:            addr,
		handler:         handler,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "endpoints").Logger(),
	}
}

// Addr is the bound listener address, empty while not serving.
func (s *EndpointService) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bound
}

func (s *EndpointService) setBound(addr string) {
	s.mu.Lock()
	s.bound = addr
	s.mu.Unlock()
}

// Serve implements suture.Service.
func (s *EndpointService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.setBound(ln.Addr().String())
	defer s.setBound("")
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("operator endpoints listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve endpoints: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shut down endpoints: %w", err)
		}
		<-errCh
		s.logger.Info().Msg("operator endpoints stopped")
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
func (s *EndpointService) String() string {
	return "endpoints"
}
