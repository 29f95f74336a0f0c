// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/menurec/internal/recommend/profile"
	"github.com/tomtom215/menurec/internal/store"
)

var (
	_ suture.Service = (*EndpointService)(nil)
	_ suture.Service = (*TrendingRefreshService)(nil)
	_ suture.Service = (*SnapshotService)(nil)
	_ suture.Service = (*EventBusService)(nil)
)

func TestEndpointService(t *testing.T) {
	t.Parallel()

	t.Run("serves until cancelled", func(t *testing.T) {
		t.Parallel()
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		svc := NewEndpointService("127.0.0.1:0", handler, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		addr := waitForAddr(t, svc)
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			t.Fatalf("GET error = %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("status = %d, want 204", resp.StatusCode)
		}

		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
		if svc.Addr() != "" {
			t.Errorf("Addr() after stop = %q, want empty", svc.Addr())
		}
	})

	t.Run("listen failure", func(t *testing.T) {
		t.Parallel()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen() error = %v", err)
		}
		defer ln.Close()

		svc := NewEndpointService(ln.Addr().String(), http.NotFoundHandler(), time.Second, zerolog.Nop())
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() on a taken address should fail")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		svc := NewEndpointService(":0", http.NotFoundHandler(), -time.Second, zerolog.Nop())
		if svc.shutdownTimeout != defaultShutdownTimeout || svc.String() != "endpoints" {
			t.Errorf("service = %v with timeout %v", svc, svc.shutdownTimeout)
		}
	})
}

func waitForAddr(t *testing.T, svc *EndpointService) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if addr := svc.Addr(); addr != "" {
			return addr
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("endpoint service did not bind")
	return ""
}

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) RefreshAll() int {
	c.calls.Add(1)
	return 3
}

func TestTrendingRefreshService(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	svc := NewTrendingRefreshService(r, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for r.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("RefreshAll calls = %d, want at least 2", r.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}

	if d := NewTrendingRefreshService(r, 0, zerolog.Nop()).interval; d != DefaultRefreshInterval {
		t.Errorf("default interval = %v, want %v", d, DefaultRefreshInterval)
	}
}

type fakeSnapshotter struct {
	mu         sync.Mutex
	restoreErr error
	restores   int
	saves      int
}

func (f *fakeSnapshotter) SaveState(store.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return nil
}

func (f *fakeSnapshotter) RestoreState(store.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restores++
	return f.restoreErr
}

func (f *fakeSnapshotter) counts() (restores, saves int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restores, f.saves
}

func TestSnapshotService_RestoresOnceAndSavesOnStop(t *testing.T) {
	t.Parallel()

	snap := &fakeSnapshotter{}
	svc := NewSnapshotService(snap, store.State{Profiles: profile.NewStore(zerolog.Nop())}, time.Hour, zerolog.Nop())

	for range 2 {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve() error = %v, want context.Canceled", err)
		}
	}

	restores, saves := snap.counts()
	if restores != 1 {
		t.Errorf("restores = %d, want 1", restores)
	}
	if saves != 2 {
		t.Errorf("saves = %d, want 2", saves)
	}
}

func TestSnapshotService_RestoreFailure(t *testing.T) {
	t.Parallel()

	snap := &fakeSnapshotter{restoreErr: errors.New("corrupt")}
	svc := NewSnapshotService(snap, store.State{}, 0, zerolog.Nop())

	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("Serve() should fail when restore fails")
	}
	if _, saves := snap.counts(); saves != 0 {
		t.Errorf("saves = %d, want 0 after failed restore", saves)
	}
	if svc.interval != DefaultSnapshotInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultSnapshotInterval)
	}
}

func TestSnapshotService_SkipRestore(t *testing.T) {
	t.Parallel()

	snap := &fakeSnapshotter{restoreErr: errors.New("must not be called")}
	svc := NewSnapshotService(snap, store.State{}, time.Hour, zerolog.Nop())
	svc.SkipRestore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Serve() error = %v, want context.Canceled", err)
	}
	if restores, saves := snap.counts(); restores != 0 || saves != 1 {
		t.Errorf("restores, saves = %d, %d, want 0, 1", restores, saves)
	}
}

type fakeRouter struct {
	runErr error
	closes atomic.Int32
}

func (f *fakeRouter) Run(ctx context.Context) error {
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeRouter) Close() error {
	f.closes.Add(1)
	return nil
}

func TestEventBusService(t *testing.T) {
	t.Parallel()

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		r := &fakeRouter{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := NewEventBusService(r, zerolog.Nop()).Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
		if r.closes.Load() != 1 {
			t.Errorf("Close calls = %d, want 1", r.closes.Load())
		}
	})

	t.Run("router failure is final", func(t *testing.T) {
		t.Parallel()
		runErr := errors.New("router closed")
		err := NewEventBusService(&fakeRouter{runErr: runErr}, zerolog.Nop()).Serve(context.Background())
		if !errors.Is(err, suture.ErrDoNotRestart) || !errors.Is(err, runErr) {
			t.Errorf("Serve() error = %v, want ErrDoNotRestart wrapping %v", err, runErr)
		}
	})
}
