// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package mlbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/menurec/internal/cache"
	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/validation"
)

// Config configures a bridge client.
type Config struct {
	// Method is sent with predict_rating requests (default "hybrid").
	Method string `json:"method" koanf:"method"`

	// Timeout bounds each round trip.
	Timeout time.Duration `json:"timeout" koanf:"timeout" validate:"gte=0"`

	// RateLimit is the sustained requests per second; 0 disables limiting.
	RateLimit float64 `json:"rate_limit" koanf:"rate_limit" validate:"gte=0"`
	Burst     int     `json:"burst" koanf:"burst" validate:"gte=0"`

	// CacheSize and CacheTTL bound the prediction cache; CacheSize 0 disables it.
	CacheSize int           `json:"cache_size" koanf:"cache_size" validate:"gte=0"`
	CacheTTL  time.Duration `json:"cache_ttl" koanf:"cache_ttl" validate:"gte=0"`

	// Breaker settings.
	BreakerName         string        `json:"breaker_name" koanf:"breaker_name"`
	BreakerMinRequests  uint32        `json:"breaker_min_requests" koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `json:"breaker_failure_ratio" koanf:"breaker_failure_ratio" validate:"gte=0,lte=1"`
	BreakerInterval     time.Duration `json:"breaker_interval" koanf:"breaker_interval" validate:"gte=0"`
	BreakerTimeout      time.Duration `json:"breaker_timeout" koanf:"breaker_timeout" validate:"gte=0"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Method:              MethodHybrid,
		Timeout:             2 * time.Second,
		RateLimit:           20,
		Burst:               5,
		CacheSize:           4096,
		CacheTTL:            5 * time.Minute,
		BreakerName:         "ml-bridge",
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.6,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      2 * time.Minute,
	}
}

// Client talks to the external model. Every prediction failure is absorbed
// into FallbackPrediction; other operations return errors.
//
// Client is safe for concurrent use.
type Client struct {
	cfg       Config
	transport Transport
	cb        *bridgeBreaker
	limiter   *rate.Limiter
	cache     *cache.LRU[Prediction]
	logger    zerolog.Logger
}

// New creates a client over transport. Zero-valued config fields take their
// defaults.
//
//nolint:gocritic // hugeParam: Config is passed once at startup
func New(cfg Config, transport Transport, logger zerolog.Logger) (*Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("mlbridge: transport is required")
	}
	cfg = withDefaults(cfg)
	if err := validation.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("mlbridge: invalid config: %w", err)
	}

	c := &Client{
		cfg:       cfg,
		transport: transport,
		logger:    logger.With().Str("component", "mlbridge").Logger(),
	}
	c.cb = newBridgeBreaker(cfg, c.logger)

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.CacheSize > 0 {
		c.cache = cache.NewLRU[Prediction](cfg.CacheSize, cfg.CacheTTL)
	}
	return c, nil
}

//nolint:gocritic // hugeParam: see New
func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Method == "" {
		cfg.Method = def.Method
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = def.BreakerName
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = def.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio == 0 {
		cfg.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if cfg.BreakerInterval == 0 {
		cfg.BreakerInterval = def.BreakerInterval
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}
	return cfg
}

// PredictRating asks the model for userID's rating of itemID. It never fails:
// any error yields FallbackPrediction.
func (c *Client) PredictRating(ctx context.Context, userID, itemID string) Prediction {
	key := userID + "\x00" + itemID + "\x00" + c.cfg.Method
	if c.cache != nil {
		if p, ok := c.cache.Get(key); ok {
			metrics.RecordBridgeRequest(CommandPredictRating, "cached", 0)
			return p
		}
	}

	resp, err := c.call(ctx, &Request{
		Command: CommandPredictRating,
		UserID:  userID,
		ItemID:  itemID,
		Method:  c.cfg.Method,
	})
	if err == nil && resp.Prediction == nil {
		err = errors.New("response has no prediction")
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Str("item_id", itemID).Msg("prediction failed, using fallback")
		metrics.RecordBridgeRequest(CommandPredictRating, "fallback", 0)
		return FallbackPrediction()
	}

	p := *resp.Prediction
	p.Rating = recommend.Clamp(p.Rating, 0, 5)
	p.Confidence = recommend.Clamp01(p.Confidence)
	if p.Method == "" {
		p.Method = c.cfg.Method
	}

	if c.cache != nil {
		c.cache.Add(key, p)
	}
	return p
}

// Recommendations asks the model to rank itemIDs for userID.
func (c *Client) Recommendations(ctx context.Context, userID string, itemIDs []string, topK int) ([]Recommendation, error) {
	resp, err := c.call(ctx, &Request{
		Command: CommandGetRecommendations,
		UserID:  userID,
		ItemIDs: itemIDs,
		TopK:    topK,
	})
	if err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// UpdateFeedback forwards a rating to the model and drops any cached
// prediction for the pair.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value to match ScoringStrategy.Learn
func (c *Client) UpdateFeedback(ctx context.Context, event recommend.FeedbackEvent) error {
	if c.cache != nil {
		c.cache.Remove(event.UserID + "\x00" + event.ItemID + "\x00" + c.cfg.Method)
	}

	rating := event.Rating
	resp, err := c.call(ctx, &Request{
		Command: CommandUpdateFeedback,
		UserID:  event.UserID,
		ItemID:  event.ItemID,
		Rating:  &rating,
		Context: event.Comment,
	})
	if err != nil {
		return err
	}
	if resp.Status != StatusSuccess {
		return fmt.Errorf("update_feedback: unexpected status %q", resp.Status)
	}
	return nil
}

// Performance returns the model's self-reported metrics.
func (c *Client) Performance(ctx context.Context) (map[string]any, error) {
	resp, err := c.call(ctx, &Request{Command: CommandGetPerformance})
	if err != nil {
		return nil, err
	}
	if resp.Metrics == nil {
		return map[string]any{}, nil
	}
	return resp.Metrics, nil
}

// CacheStats returns the prediction cache counters (zero when disabled).
func (c *Client) CacheStats() cache.Stats {
	if c.cache == nil {
		return cache.Stats{}
	}
	return c.cache.Stats()
}

// BreakerState returns the breaker state as "closed", "half-open" or "open".
func (c *Client) BreakerState() string {
	return c.cb.state()
}

// call validates, encodes and sends req, and decodes the response.
func (c *Client) call(ctx context.Context, req *Request) (*Response, error) {
	if err := validation.Validate(req); err != nil {
		metrics.RecordBridgeRequest(req.Command, "invalid", 0)
		return nil, fmt.Errorf("invalid %s request: %w", req.Command, err)
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		metrics.RecordBridgeRequest(req.Command, "invalid", 0)
		return nil, fmt.Errorf("invalid %s request: rating %.2f out of range", req.Command, *req.Rating)
	}

	if c.limiter != nil && !c.limiter.Allow() {
		metrics.RecordBridgeRequest(req.Command, "rate_limited", 0)
		return nil, fmt.Errorf("%w: rate limit exceeded", ErrBridgeUnavailable)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Command, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.cb.run(func() (*Response, error) {
		out, rtErr := c.transport.RoundTrip(callCtx, payload)
		if rtErr != nil {
			return nil, rtErr
		}
		var decoded Response
		if decErr := json.Unmarshal(out, &decoded); decErr != nil {
			return nil, fmt.Errorf("decode %s response: %w", req.Command, decErr)
		}
		// Application-level errors count against the breaker too.
		if respErr := decoded.Err(); respErr != nil {
			return nil, respErr
		}
		return &decoded, nil
	})
	duration := time.Since(start)
	if err != nil {
		metrics.RecordBridgeRequest(req.Command, "error", duration)
		return nil, err
	}

	metrics.RecordBridgeRequest(req.Command, "success", duration)
	return resp, nil
}
