// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package config loads menurec configuration with Koanf v2.

Sources are layered, later ones winning:

 1. Built-in defaults (structs provider)
 2. An optional YAML file: MENUREC_CONFIG, or the first of DefaultConfigPaths
 3. MENUREC_* environment variables, through an explicit mapping table

Example config.yaml:

	logging:
	  level: debug
	  format: console
	engine:
	  strategies:
	    scoring: collaborative
	  limits:
	    default_count: 8
	mlbridge:
	  enabled: true
	  command: python3
	  args: [ml_bridge.py]
	store:
	  enabled: true
	  path: /var/lib/menurec

Load validates struct tags through internal/validation and then runs the
cross-field checks in Validate.
*/
package config
