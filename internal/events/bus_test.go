// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

type fakeConsumer struct {
	mu       sync.Mutex
	feedback []recommend.FeedbackEvent
	orders   []recommend.OrderEvent

	failures  atomic.Int64 // remaining failures to return
	calls     atomic.Int64
	panicOnce atomic.Bool
}

//nolint:gocritic // hugeParam: matches Consumer
func (f *fakeConsumer) ApplyFeedback(_ context.Context, e recommend.FeedbackEvent) error {
	f.calls.Add(1)
	if f.panicOnce.CompareAndSwap(true, false) {
		panic("consumer crashed")
	}
	if f.failures.Add(-1) >= 0 {
		return errors.New("transient")
	}
	f.mu.Lock()
	f.feedback = append(f.feedback, e)
	f.mu.Unlock()
	return nil
}

//nolint:gocritic // hugeParam: matches Consumer
func (f *fakeConsumer) ApplyOrder(_ context.Context, e recommend.OrderEvent) error {
	f.mu.Lock()
	f.orders = append(f.orders, e)
	f.mu.Unlock()
	return nil
}

func (f *fakeConsumer) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.feedback), len(f.orders)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryMaxRetries = 2
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond
	cfg.CloseTimeout = time.Second
	return cfg
}

// startBus runs a bus for c and stops it when the test ends.
func startBus(t *testing.T, c Consumer) *Bus {
	t.Helper()

	bus, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	bus.Handle(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
		<-done
	})

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not start")
	}
	return bus
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCodec(t *testing.T) {
	t.Parallel()

	in := recommend.FeedbackEvent{UserID: "u1", ItemID: "A", Rating: 4.5, Comment: "great"}
	data, err := EncodeFeedback(in)
	if err != nil {
		t.Fatalf("EncodeFeedback() error = %v", err)
	}
	out, err := DecodeFeedback(data)
	if err != nil {
		t.Fatalf("DecodeFeedback() error = %v", err)
	}
	if out.UserID != in.UserID || out.Rating != in.Rating || out.Comment != in.Comment {
		t.Errorf("DecodeFeedback() = %+v, want %+v", out, in)
	}

	if _, err := EncodeFeedback(recommend.FeedbackEvent{ItemID: "A"}); err == nil {
		t.Error("EncodeFeedback() without user should fail")
	}
	if _, err := DecodeOrder([]byte(`{"user_id":"u","item_id":"i","quantity":0}`)); err == nil {
		t.Error("DecodeOrder() with zero quantity should fail")
	}
	if _, err := DecodeOrder([]byte(`not json`)); err == nil {
		t.Error("DecodeOrder() with bad JSON should fail")
	}
}

func TestBus_PublishBeforeRun(t *testing.T) {
	t.Parallel()

	bus, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer bus.Close()

	err = bus.PublishFeedback(context.Background(), recommend.FeedbackEvent{UserID: "u", ItemID: "i", Rating: 3})
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("PublishFeedback() error = %v, want ErrNotRunning", err)
	}
}

func TestBus_DeliversEvents(t *testing.T) {
	t.Parallel()

	c := &fakeConsumer{}
	bus := startBus(t, c)
	ctx := context.Background()

	if err := bus.PublishFeedback(ctx, recommend.FeedbackEvent{UserID: "u", ItemID: "A", Rating: 5}); err != nil {
		t.Fatalf("PublishFeedback() error = %v", err)
	}
	if err := bus.PublishOrder(ctx, recommend.OrderEvent{UserID: "u", ItemID: "A", Quantity: 2}); err != nil {
		t.Fatalf("PublishOrder() error = %v", err)
	}

	waitFor(t, func() bool {
		f, o := c.counts()
		return f == 1 && o == 1
	})
	if c.orders[0].Quantity != 2 {
		t.Errorf("order quantity = %d, want 2", c.orders[0].Quantity)
	}
}

func TestBus_RetriesAndRecovers(t *testing.T) {
	t.Parallel()

	c := &fakeConsumer{}
	c.failures.Store(1)
	c.panicOnce.Store(true)
	bus := startBus(t, c)

	if err := bus.PublishFeedback(context.Background(), recommend.FeedbackEvent{UserID: "u", ItemID: "A", Rating: 2}); err != nil {
		t.Fatalf("PublishFeedback() error = %v", err)
	}

	// panic, error, success: three attempts under MaxRetries 2.
	waitFor(t, func() bool {
		f, _ := c.counts()
		return f == 1
	})
	if got := c.calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestBus_PoisonsAfterRetries(t *testing.T) {
	t.Parallel()

	c := &fakeConsumer{}
	c.failures.Store(100)
	bus := startBus(t, c)
	ctx := context.Background()

	poisoned, err := bus.transport.poison.Subscribe(ctx, TopicPoison)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := bus.PublishFeedback(ctx, recommend.FeedbackEvent{UserID: "u", ItemID: "A", Rating: 1}); err != nil {
		t.Fatalf("PublishFeedback() error = %v", err)
	}

	select {
	case msg := <-poisoned:
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("message was not poisoned")
	}
	// One attempt plus two retries.
	if got := c.calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestBus_DropsMalformed(t *testing.T) {
	t.Parallel()

	c := &fakeConsumer{}
	bus := startBus(t, c)

	bad := message.NewMessage(watermill.NewUUID(), []byte(`{"user_id":""}`))
	if err := bus.transport.publisher.Publish(TopicFeedback, bad); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := bus.PublishFeedback(context.Background(), recommend.FeedbackEvent{UserID: "u", ItemID: "A", Rating: 4}); err != nil {
		t.Fatalf("PublishFeedback() error = %v", err)
	}

	waitFor(t, func() bool {
		f, _ := c.counts()
		return f == 1
	})
	if got := c.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestBus_CloseStopsPublishing(t *testing.T) {
	t.Parallel()

	bus := startBus(t, &fakeConsumer{})
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	err := bus.PublishOrder(context.Background(), recommend.OrderEvent{UserID: "u", ItemID: "A", Quantity: 1})
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("PublishOrder() after Close error = %v, want ErrNotRunning", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNew_Transports(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Transport = "kafka"
	if _, err := New(cfg, zerolog.Nop()); err == nil {
		t.Error("New() with unknown transport should fail")
	}

	cfg.Transport = ""
	bus, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() with empty transport error = %v", err)
	}
	if bus.transport.poison == nil {
		t.Error("channel transport should expose the poison topic")
	}
	_ = bus.Close()
}
