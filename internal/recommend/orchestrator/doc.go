// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package orchestrator sequences a recommendation request.

States:

	START -> PROFILE_LOADED -> COLD_START ------------------------> PRESENTED
	                        -> CANDIDATES_FILTERED -> RANKED -----> PRESENTED

Any error or panic on the personalized path is recovered and answered with
the cold-start list, ending in FALLBACK_PRESENTED. Recommend therefore never
returns an error.

Users without order history get trending items filtered by context. Other
users get catalog items passed through the canonical filter (availability,
allergy, diet, price, context, custom stages), scored in parallel by the
active strategy with a deterministic merge, optionally diversified with MMR,
and truncated to the requested count. Each presented item carries the
strategy's explanation and its score as confidence.

Refine feeds a rating into the feedback strategy, the scoring strategy and
the running metrics synchronously. Aggregator and profile updates are
published to the event bus when one is configured and applied inline
otherwise.
*/
package orchestrator
