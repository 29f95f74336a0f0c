// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package services adapts menurec components to suture.Service.

  - EndpointService: binds and serves the operator endpoints, shuts down gracefully
  - TrendingRefreshService: periodic trending score refresh
  - SnapshotService: restore on start, periodic save, final save on stop
  - EventBusService: runs the feedback and order event router

Every wrapper returns ctx.Err() on cancellation and a wrapped error on
failure, which suture treats as a restart request. Each implements
fmt.Stringer so supervisor events name the service.
*/
package services
