// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

//go:build !nats

package events

import (
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// ErrNATSNotBuilt is returned for the nats transport in binaries built
// without the nats tag.
var ErrNATSNotBuilt = errors.New("events: nats transport requires building with -tags nats")

func newNATSTransport(_ *NATSConfig, _ time.Duration, _ watermill.LoggerAdapter) (*transport, error) {
	return nil, ErrNATSNotBuilt
}
