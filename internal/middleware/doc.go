// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package middleware provides the HTTP middleware of the serve command's
metrics and health endpoint.

  - RequestID: tags each request with an X-Request-ID, reusing one set by an
    upstream proxy, and stores it in the context for logging.Ctx.
  - PrometheusMetrics: counts requests and observes latency per chi route
    pattern.

Both are installed on the serve command's chi router:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Requests that match no route are recorded under the "other" path label so
scrapes of unknown URLs cannot grow label cardinality.
*/
package middleware
