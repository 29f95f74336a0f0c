// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package events

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/validation"
)

// Topics.
const (
	TopicFeedback = "menurec.feedback"
	TopicOrders   = "menurec.orders"
	TopicPoison   = "menurec.poison"
)

// Message metadata keys.
const (
	MetaEventType = "event_type"
	MetaUserID    = "user_id"
)

// EncodeFeedback validates and marshals a feedback event.
//
//nolint:gocritic // hugeParam: events are passed by value across the bus API
func EncodeFeedback(event recommend.FeedbackEvent) ([]byte, error) {
	return encode(&event)
}

// DecodeFeedback unmarshals and validates a feedback event.
func DecodeFeedback(data []byte) (recommend.FeedbackEvent, error) {
	var event recommend.FeedbackEvent
	err := decode(data, &event)
	return event, err
}

// EncodeOrder validates and marshals an order event.
//
//nolint:gocritic // hugeParam: events are passed by value across the bus API
func EncodeOrder(event recommend.OrderEvent) ([]byte, error) {
	return encode(&event)
}

// DecodeOrder unmarshals and validates an order event.
func DecodeOrder(data []byte) (recommend.OrderEvent, error) {
	var event recommend.OrderEvent
	err := decode(data, &event)
	return event, err
}

func encode(v any) ([]byte, error) {
	if err := validation.Validate(v); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if err := validation.Validate(v); err != nil {
		return fmt.Errorf("validate event: %w", err)
	}
	return nil
}
