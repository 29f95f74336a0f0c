// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package mlbridge is the client of an external rating-prediction model.
//
// Requests and responses are single JSON documents:
//
//	{"command":"predict_rating","user_id":"u1","item_id":"VEG004","method":"hybrid"}
//	{"status":"success","prediction":{"rating":4.2,"confidence":0.8,"method":"hybrid"}}
//	{"error":"Missing user_id or item_id"}
//
// The default transport, ProcessTransport, runs one process per request with
// the document on stdin. Calls pass through a rate limiter, a gobreaker
// circuit breaker and a TTL prediction cache. PredictRating absorbs every
// failure into FallbackPrediction (rating 3.5, confidence 0.3).
package mlbridge
