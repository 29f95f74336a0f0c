// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names one child supervisor of the tree.
type Layer int

const (
	// LayerState keeps engine state fresh and durable.
	LayerState Layer = iota
	// LayerMessaging runs the event bus.
	LayerMessaging
	// LayerAPI serves the operator endpoints.
	LayerAPI

	layerCount
)

var layerNames = [layerCount]string{"state-layer", "messaging-layer", "api-layer"}

func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// ErrUnknownLayer is returned when a service targets a layer the tree
// does not have.
var ErrUnknownLayer = errors.New("unknown supervisor layer")

// TreeConfig tunes restart behavior. Zero fields take the defaults.
type TreeConfig struct {
	// Failures before a layer backs off.
	FailureThreshold float64 `koanf:"failure_threshold"`

	// Failure decay rate, in seconds.
	FailureDecay float64 `koanf:"failure_decay"`

	FailureBackoff  time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DefaultTreeConfig mirrors suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) validate() error {
	switch {
	case c.FailureThreshold < 0:
		return fmt.Errorf("supervisor failure_threshold %v is negative", c.FailureThreshold)
	case c.FailureDecay < 0:
		return fmt.Errorf("supervisor failure_decay %v is negative", c.FailureDecay)
	case c.FailureBackoff < 0:
		return fmt.Errorf("supervisor failure_backoff %v is negative", c.FailureBackoff)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("supervisor shutdown_timeout %v is negative", c.ShutdownTimeout)
	}
	return nil
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree runs the serve command's services in three independently
// restarted layers under one root.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers [layerCount]*suture.Supervisor
	config TreeConfig
}

// NewSupervisorTree builds the root and its layers. Supervisor events are
// logged through logger, or slog.Default when nil.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	events := &sutureslog.Handler{Logger: logger}
	t := &SupervisorTree{
		root:   suture.New("menurec", config.spec(events.MustHook())),
		config: config,
	}
	// Layers inherit the root's event hook.
	for l := Layer(0); l < layerCount; l++ {
		t.layers[l] = suture.New(l.String(), config.spec(nil))
		t.root.Add(t.layers[l])
	}
	return t, nil
}

// Add registers svc on layer. It panics on an unknown layer, which is a
// wiring bug.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	sup, err := t.layer(layer)
	if err != nil {
		panic(err)
	}
	return sup.Add(svc)
}

// Remove stops and removes a service added with Add.
func (t *SupervisorTree) Remove(layer Layer, token suture.ServiceToken) error {
	sup, err := t.layer(layer)
	if err != nil {
		return err
	}
	return sup.Remove(token)
}

func (t *SupervisorTree) layer(l Layer) (*suture.Supervisor, error) {
	if l < 0 || l >= layerCount {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, l)
	}
	return t.layers[l], nil
}

// AddStateService adds a service to the state layer.
func (t *SupervisorTree) AddStateService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerState, svc)
}

// AddMessagingService adds a service to the messaging layer.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerMessaging, svc)
}

// AddAPIService adds a service to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerAPI, svc)
}

// ServeBackground runs the tree until ctx is cancelled. The channel
// receives the result once the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
