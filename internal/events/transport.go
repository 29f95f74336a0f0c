// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Transport names.
const (
	TransportChannel = "channel"
	TransportNATS    = "nats"
)

// StreamName is the JetStream stream holding every menurec subject.
const StreamName = "MENUREC"

// NATSConfig configures the JetStream transport. It is only honored by
// binaries built with the nats tag.
type NATSConfig struct {
	// URL of an external server. Empty starts an embedded server.
	URL string `koanf:"url"`

	// Embedded server settings.
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	StoreDir string `koanf:"store_dir"`

	// MaxAge bounds how long events stay in the stream.
	MaxAge time.Duration `koanf:"max_age"`

	// DurablePrefix names the durable consumers, one per topic.
	DurablePrefix string `koanf:"durable_prefix"`

	AckWait       time.Duration `koanf:"ack_wait"`
	MaxDeliver    int           `koanf:"max_deliver" validate:"gte=0"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// DefaultNATSConfig returns the embedded-server defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		Host:          "127.0.0.1",
		Port:          4222,
		MaxAge:        7 * 24 * time.Hour,
		DurablePrefix: "menurec",
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// transport is the pub/sub pair a Bus runs on.
type transport struct {
	publisher message.Publisher
	feedback  message.Subscriber
	orders    message.Subscriber

	// poison receives dead events; nil when the transport keeps them
	// server side.
	poison message.Subscriber

	close func() error
}

func newTransport(cfg *Config, logger watermill.LoggerAdapter) (*transport, error) {
	switch cfg.Transport {
	case "", TransportChannel:
		pubsub := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		return &transport{
			publisher: pubsub,
			feedback:  pubsub,
			orders:    pubsub,
			poison:    pubsub,
			close:     pubsub.Close,
		}, nil
	case TransportNATS:
		return newNATSTransport(&cfg.NATS, cfg.CloseTimeout, logger)
	default:
		return nil, fmt.Errorf("unknown event transport %q", cfg.Transport)
	}
}
