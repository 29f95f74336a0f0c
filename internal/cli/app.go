// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/config"
	"github.com/tomtom215/menurec/internal/events"
	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/mlbridge"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/orchestrator"
	"github.com/tomtom215/menurec/internal/store"
)

// app is the engine and its collaborators assembled for one command.
type app struct {
	cfg     *config.Config
	dataset *Dataset
	engine  *orchestrator.Engine
	orders  *recommend.MemoryOrderHistory
	store   *store.Store
	bridge  *mlbridge.Client
	bus     *events.Bus
	logger  zerolog.Logger

	// restored is set when state came from a snapshot rather than the
	// catalog file.
	restored bool
}

// newApp loads configuration and the catalog, then builds the engine. With
// withBus set and events enabled, feedback and orders are published to an
// event bus the caller must run.
func newApp(opts *rootOptions, withBus bool) (*app, error) {
	cfg, logger, err := setup(opts)
	if err != nil {
		return nil, err
	}

	ds, err := LoadDataset(opts.catalogPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		dataset: ds,
		orders:  recommend.NewMemoryOrderHistory(),
		logger:  logger,
	}

	deps := orchestrator.Deps{
		Catalog:   recommend.NewMemoryCatalog(ds.CatalogItems()...),
		Inventory: ds.Inventory(),
		Orders:    a.orders,
		Now:       opts.now,
	}

	if cfg.MLBridge.Enabled {
		transport := mlbridge.NewProcessTransport(cfg.MLBridge.Command, cfg.MLBridge.Args...)
		a.bridge, err = mlbridge.New(cfg.MLBridge.Client, transport, logging.Logger())
		if err != nil {
			return nil, fmt.Errorf("create ml bridge: %w", err)
		}
		deps.Predictor = a.bridge
	}

	if withBus && cfg.Events.Enabled {
		busCfg := cfg.Events.Bus
		if busCfg.Transport == events.TransportNATS && busCfg.NATS.StoreDir == "" && cfg.Store.Enabled {
			busCfg.NATS.StoreDir = filepath.Clean(cfg.Store.Path) + "-jetstream"
		}
		a.bus, err = events.New(busCfg, logging.Logger())
		if err != nil {
			return nil, fmt.Errorf("create event bus: %w", err)
		}
		deps.Publisher = a.bus
	}

	a.engine, err = orchestrator.New(&cfg.Engine, deps, logging.Logger())
	if err != nil {
		a.closeBus()
		return nil, err
	}
	if a.bus != nil {
		a.bus.Handle(a.engine)
	}

	if cfg.Store.Enabled {
		a.store, err = store.Open(cfg.Store.Store(), logging.Logger())
		if err != nil {
			a.closeBus()
			return nil, fmt.Errorf("open state store: %w", err)
		}
		if err := a.restore(); err != nil {
			_ = a.close()
			return nil, err
		}
	}
	return a, nil
}

// setup loads configuration, applies the global flag overrides and
// initializes logging.
func setup(opts *rootOptions) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.stateDir != "" {
		cfg.Store.Enabled = true
		cfg.Store.Path = opts.stateDir
	}

	logCfg := cfg.Logging.Logging()
	logCfg.Output = opts.stderr
	logging.Init(logCfg)
	return cfg, logging.WithComponent("cli"), nil
}

// state is the live state a snapshot covers.
func (a *app) state() store.State {
	return store.State{
		Profiles: a.engine.Profiles(),
		Trending: a.engine.Trending(),
		Orders:   a.orders,
	}
}

func (a *app) restore() error {
	if _, err := a.store.Meta(); errors.Is(err, store.ErrSnapshotNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := a.store.RestoreState(a.state()); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	a.restored = true
	return nil
}

// seed applies the profiles, feedback and orders of the catalog file unless
// a snapshot was restored. Through a running bus the events apply
// asynchronously.
func (a *app) seed(ctx context.Context) error {
	if a.restored {
		return nil
	}

	profiles := a.engine.Profiles()
	for i := range a.dataset.Profiles {
		if err := profiles.Put(a.dataset.Profiles[i].Profile()); err != nil {
			return fmt.Errorf("seed profile %s: %w", a.dataset.Profiles[i].UserID, err)
		}
	}
	for _, fb := range a.dataset.Feedback {
		if err := a.engine.Refine(ctx, fb); err != nil {
			return fmt.Errorf("seed feedback: %w", err)
		}
	}
	for _, o := range a.dataset.Orders {
		if err := a.engine.RecordOrder(ctx, o); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
	}

	a.logger.Debug().
		Int("profiles", len(a.dataset.Profiles)).
		Int("feedback", len(a.dataset.Feedback)).
		Int("orders", len(a.dataset.Orders)).
		Msg("catalog state seeded")
	return nil
}

// persist saves a snapshot when a store is configured.
func (a *app) persist() error {
	if a.store == nil {
		return nil
	}
	return a.store.SaveState(a.state())
}

func (a *app) closeBus() {
	if a.bus == nil {
		return
	}
	if err := a.bus.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing event bus")
	}
}

// close releases the store. The bus is closed by its supervised service.
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
