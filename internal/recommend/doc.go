// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package recommend defines the data model and contracts of the menu
// recommendation pipeline.
//
// # Architecture
//
// The pipeline ranks catalog items for a user by blending:
//
//   - Scoring strategies: content-based and collaborative (subpackage algorithms)
//   - Feedback strategies: simple and advanced sentiment (subpackage feedback)
//   - Filter stages: availability, dietary, price, context, custom rules (subpackage filter)
//   - Trending: decayed popularity used for cold start (subpackage trending)
//   - Profiles: per-user preferences and user similarity (subpackage profile)
//
// The orchestrator subpackage sequences these into a single request:
//
//	START -> PROFILE_LOADED -> (COLD_START | CANDIDATES_FILTERED) -> RANKED -> PRESENTED
//
// Any failure on the personalized path ends in FALLBACK_PRESENTED with
// trending items instead of an error.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := orchestrator.New(cfg, deps, logger)
//	outcome := engine.Recommend(ctx, orchestrator.Request{UserID: "u1", Count: 5})
//
// # Thread Safety
//
// Strategies, the trending aggregator and the profile store are safe for
// concurrent use. Item and UserProfile values are not; owners serialize
// mutation and hand out clones for reads.
package recommend
