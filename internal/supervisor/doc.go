// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package supervisor runs the long-lived parts of the serve command under a
suture v4 supervisor tree.

	RootSupervisor ("menurec")
	├── StateSupervisor ("state-layer")
	│   ├── TrendingRefreshService
	│   └── SnapshotService (if store.enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventBusService
	└── APISupervisor ("api-layer")
	    └── EndpointService (metrics and health endpoints)

Each layer counts failures independently, so a crashing event bus does not
take the metrics endpoint down with it. Supervisor events are logged
through sutureslog.

Usage:

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddStateService(services.NewTrendingRefreshService(agg, time.Minute, logger))
	tree.AddMessagingService(services.NewEventBusService(bus, logger))
	tree.AddAPIService(services.NewEndpointService(":9090", handler, 10*time.Second, logger))
	return tree.Serve(ctx)
*/
package supervisor
