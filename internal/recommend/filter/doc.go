// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package filter implements the candidate filtering pipeline.

A Stage is a named predicate over menu items with an activation flag and a
priority. Stages are built either from a Predicate or from a rule string
parsed once at construction:

	vegetarian  vegan  non-vegetarian  spicy  mild  hot  cold  healthy
	available   unavailable
	price_under_N  price_over_N  rating_above_N
	category_X  tag_X  contains_X  excludes_X

Unknown, empty and malformed rules accept every item.

A Pipeline combines its active stages in strict mode (every stage must
accept) or lenient mode (any stage may accept). A predicate that panics is
treated as rejecting the item; the panic is reported to the ErrorHandler,
logged and counted, never propagated.

Canonical applies the fixed request order used by the orchestrator:

 1. availability (menu flag, then inventory; absent stock is out of stock)
 2. allergy exclusion
 3. vegan, else vegetarian, per profile
 4. price range
 5. context appropriateness
 6. the custom stage pipeline

Each step receives the previous step's output and an empty intermediate
result ends the pipeline.
*/
package filter
