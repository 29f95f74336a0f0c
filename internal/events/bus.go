// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// ErrNotRunning is returned by the publish methods before Run has started
// the router or after Close.
var ErrNotRunning = errors.New("events: bus is not running")

// Consumer applies events delivered by the bus.
type Consumer interface {
	ApplyFeedback(ctx context.Context, event recommend.FeedbackEvent) error
	ApplyOrder(ctx context.Context, event recommend.OrderEvent) error
}

// Config configures a Bus.
type Config struct {
	// Transport is channel (in process) or nats (JetStream, requires the
	// nats build tag).
	Transport string `koanf:"transport" validate:"oneof=channel nats"`

	// BufferSize is the GoChannel output buffer per subscriber.
	BufferSize int64 `koanf:"buffer_size" validate:"gte=0"`

	// CloseTimeout bounds in-flight handling on Close.
	CloseTimeout time.Duration `koanf:"close_timeout"`

	// Retry settings for consumer errors.
	RetryMaxRetries      int           `koanf:"retry_max_retries" validate:"gte=0"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `koanf:"retry_max_interval"`
	RetryMultiplier      float64       `koanf:"retry_multiplier"`

	NATS NATSConfig `koanf:"nats"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Transport:            TransportChannel,
		BufferSize:           256,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
		NATS:                 DefaultNATSConfig(),
	}
}

// Bus publishes and consumes engine events.
type Bus struct {
	transport *transport
	router    *message.Router
	logger    zerolog.Logger

	mu      sync.Mutex
	handled bool
	closed  bool
}

// New creates a Bus. Register a consumer with Handle before Run.
func New(cfg Config, logger zerolog.Logger) (*Bus, error) {
	logger = logger.With().Str("component", "events").Logger()
	wmLogger := watermill.NewSlogLogger(slog.New(logging.NewSlogHandlerWithLogger(logger)))

	tr, err := newTransport(&cfg, wmLogger)
	if err != nil {
		return nil, err
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		_ = tr.close()
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	poison, err := middleware.PoisonQueue(tr.publisher, TopicPoison)
	if err != nil {
		_ = tr.close()
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          wmLogger,
	}
	router.AddMiddleware(poison, retry.Middleware, middleware.Recoverer)

	logger.Debug().Str("transport", cfg.Transport).Msg("event bus created")
	return &Bus{
		transport: tr,
		router:    router,
		logger:    logger,
	}, nil
}

// Handle subscribes c to both topics. It must be called once, before Run.
func (b *Bus) Handle(c Consumer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handled {
		return
	}
	b.handled = true

	b.router.AddConsumerHandler("feedback", TopicFeedback, b.transport.feedback, func(msg *message.Message) error {
		event, err := DecodeFeedback(msg.Payload)
		if err != nil {
			b.drop(TopicFeedback, msg, err)
			return nil
		}
		err = c.ApplyFeedback(msg.Context(), event)
		metrics.RecordEventProcessed(TopicFeedback, err)
		return err
	})

	b.router.AddConsumerHandler("orders", TopicOrders, b.transport.orders, func(msg *message.Message) error {
		event, err := DecodeOrder(msg.Payload)
		if err != nil {
			b.drop(TopicOrders, msg, err)
			return nil
		}
		err = c.ApplyOrder(msg.Context(), event)
		metrics.RecordEventProcessed(TopicOrders, err)
		return err
	})
}

func (b *Bus) drop(topic string, msg *message.Message, err error) {
	metrics.RecordEventProcessed(topic, err)
	b.logger.Warn().Err(err).Str("topic", topic).Str("message_id", msg.UUID).Msg("dropping malformed event")
}

// Run starts the router and blocks until ctx is cancelled or Close is
// called.
func (b *Bus) Run(ctx context.Context) error {
	b.logger.Info().Msg("event bus starting")
	err := b.router.Run(ctx)
	b.logger.Info().Msg("event bus stopped")
	return err
}

// Running closes when the router has started its handlers.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// IsRunning reports whether events can be published.
func (b *Bus) IsRunning() bool {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	return !closed && b.router.IsRunning()
}

// Close stops the router and the transport.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	rerr := b.router.Close()
	terr := b.transport.close()
	return errors.Join(rerr, terr)
}

// PublishFeedback publishes a feedback event.
//
//nolint:gocritic // hugeParam: matches orchestrator.Publisher
func (b *Bus) PublishFeedback(ctx context.Context, event recommend.FeedbackEvent) error {
	data, err := EncodeFeedback(event)
	if err != nil {
		return err
	}
	return b.publish(ctx, TopicFeedback, "feedback", event.UserID, data)
}

// PublishOrder publishes an order event.
//
//nolint:gocritic // hugeParam: matches orchestrator.Publisher
func (b *Bus) PublishOrder(ctx context.Context, event recommend.OrderEvent) error {
	data, err := EncodeOrder(event)
	if err != nil {
		return err
	}
	return b.publish(ctx, TopicOrders, "order", event.UserID, data)
}

func (b *Bus) publish(ctx context.Context, topic, eventType, userID string, payload []byte) error {
	if !b.IsRunning() {
		return ErrNotRunning
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetaEventType, eventType)
	msg.Metadata.Set(MetaUserID, userID)
	msg.SetContext(context.WithoutCancel(ctx))

	if err := b.transport.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}
