// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Command menurec ranks restaurant menu items for a user in context.
//
// The engine commands read a catalog JSON file (--catalog) and print JSON:
//
//	menurec recommend --catalog items.json --user u1 --count 5 --temp 30 --weather sunny
//	menurec feedback --catalog items.json --user u1 --item dal --rating 4
//	menurec order --catalog items.json --user u1 --item dal
//	menurec trending --catalog items.json --window 24h
//	menurec similar-users --catalog items.json --user u1
//	menurec serve --catalog items.json --state /var/lib/menurec
//
// The state store can be copied with
//
//	menurec backup export --state /var/lib/menurec --out state.backup.gz
//	menurec backup import --state /var/lib/menurec --in state.backup.gz
//
// Build with -tags nats to enable the NATS JetStream event transport
// (events.bus.transport: nats).
//
// Configuration is layered (highest priority wins): MENUREC_* environment
// variables, then menurec.yaml or the file named by --config, then built-in
// defaults.
package main

import (
	"os"

	"github.com/tomtom215/menurec/internal/cli"
)

// Version information (set by build script)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, Commit, BuildTime)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
