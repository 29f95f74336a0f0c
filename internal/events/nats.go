// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

//go:build nats

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	serverReadyTimeout  = 30 * time.Second
	streamSetupTimeout  = 10 * time.Second
	maxEmbeddedPayload  = 1024 * 1024
	duplicateWindow     = 2 * time.Minute
	publishRetryWait    = 100 * time.Millisecond
	publishRetryAttempt = 3
)

// newNATSTransport connects to cfg.URL, or to an embedded JetStream
// server when the URL is empty, and ensures the menurec stream exists.
func newNATSTransport(cfg *NATSConfig, closeTimeout time.Duration, logger watermill.LoggerAdapter) (*transport, error) {
	var embedded *server.Server
	url := cfg.URL
	if url == "" {
		ns, err := startEmbeddedServer(cfg)
		if err != nil {
			return nil, err
		}
		embedded = ns
		url = ns.ClientURL()
		logger.Info("embedded NATS server started", watermill.LogFields{"url": url})
	}

	shutdown := func() {
		if embedded != nil {
			embedded.Shutdown()
			embedded.WaitForShutdown()
		}
	}

	if err := ensureStream(url, cfg); err != nil {
		shutdown()
		return nil, err
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(publishRetryAttempt),
				natsgo.RetryWait(publishRetryWait),
			},
		},
	}, logger)
	if err != nil {
		shutdown()
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	// The durable name is the prefix alone, so each topic gets its own
	// subscriber.
	newSubscriber := func(name string) (message.Subscriber, error) {
		return wmNats.NewSubscriber(wmNats.SubscriberConfig{
			URL:              url,
			SubscribersCount: 1,
			AckWaitTimeout:   cfg.AckWait,
			CloseTimeout:     closeTimeout,
			NatsOptions:      natsOpts,
			Unmarshaler:      &wmNats.NATSMarshaler{},
			JetStream: wmNats.JetStreamConfig{
				AutoProvision: false,
				SubscribeOptions: []natsgo.SubOpt{
					natsgo.BindStream(StreamName),
					natsgo.MaxDeliver(cfg.MaxDeliver),
					natsgo.AckWait(cfg.AckWait),
					natsgo.DeliverAll(),
				},
				DurablePrefix: cfg.DurablePrefix + "-" + name,
			},
		}, logger)
	}

	feedback, err := newSubscriber("feedback")
	if err != nil {
		_ = pub.Close()
		shutdown()
		return nil, fmt.Errorf("create NATS feedback subscriber: %w", err)
	}
	orders, err := newSubscriber("orders")
	if err != nil {
		_ = feedback.Close()
		_ = pub.Close()
		shutdown()
		return nil, fmt.Errorf("create NATS orders subscriber: %w", err)
	}

	return &transport{
		publisher: msgIDPublisher{pub},
		feedback:  feedback,
		orders:    orders,
		close: func() error {
			err := errors.Join(feedback.Close(), orders.Close(), pub.Close())
			shutdown()
			return err
		},
	}, nil
}

func startEmbeddedServer(cfg *NATSConfig) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "menurec-events",
		Host:       cfg.Host,
		Port:       cfg.Port,
		JetStream:  true,
		StoreDir:   cfg.StoreDir,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: maxEmbeddedPayload,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(serverReadyTimeout) {
		ns.Shutdown()
		return nil, errors.New("NATS server not ready within timeout")
	}
	return ns, nil
}

// ensureStream creates or updates the stream capturing every topic.
func ensureStream(url string, cfg *NATSConfig) error {
	nc, err := natsgo.Connect(url)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), streamSetupTimeout)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{TopicFeedback, TopicOrders, TopicPoison},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     cfg.MaxAge,
		Duplicates: duplicateWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}
	return nil
}

// msgIDPublisher sets Nats-Msg-Id so JetStream drops duplicate publishes.
type msgIDPublisher struct {
	message.Publisher
}

func (p msgIDPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
			msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
		}
	}
	return p.Publisher.Publish(topic, msgs...)
}
