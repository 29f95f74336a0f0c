// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package events is the bus that carries feedback and order events from the
recommendation engine to the trending aggregator and the profile store.

The bus is a Watermill router over one of two transports:

  - channel: a GoChannel pub/sub, in process and not durable (default)
  - nats: NATS JetStream through watermill-nats, with an embedded server
    unless a URL is configured. Events survive restarts in the MENUREC
    stream and are consumed by one durable consumer per topic. Requires
    building with -tags nats.

Two topics are used:

	menurec.feedback   recommend.FeedbackEvent as JSON
	menurec.orders     recommend.OrderEvent as JSON

Router middleware, outermost first:

  - PoisonQueue: messages that still fail after retries go to
    menurec.poison and are acked, so they are not redelivered forever
  - Retry: exponential backoff for consumer errors
  - Recoverer: consumer panics become errors and are retried

Payloads that cannot be decoded or fail validation are logged and dropped.

Publishing before the router is running returns ErrNotRunning, which the
engine treats as a signal to apply the event inline.

Usage:

	bus, err := events.New(events.DefaultConfig(), logger)
	engine, err := orchestrator.New(cfg, orchestrator.Deps{Publisher: bus, ...}, logger)
	bus.Handle(engine)
	go bus.Run(ctx)
*/
package events
