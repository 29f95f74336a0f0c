// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package trending tracks per-item order, view and rating counters and a
time-decayed trending score used for cold-start recommendations.

The score of an item is

	0.40 * ln(1 + orders)
	+ 0.30 * max(0, 1 - hoursSinceLastOrder/168)   (only once ordered)
	+ 0.20 * mean(ratings)/5                        (only once rated)
	+ 0.10 * ln(1 + views)

floored at 0. Hours are whole hours. Every mutating event recomputes the
item's score, and Trending recomputes every item against the clock before
sorting, so decay is always evaluated at the current time.

Events for items that were never registered are ignored. State is guarded
per item; registration takes a short write lock on the registry.
*/
package trending
