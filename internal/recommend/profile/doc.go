// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package profile is the shared user profile store. Profiles are created with
// defaults on first access and mutated under a per-user lock; readers get
// clones. It also computes user-to-user similarity for neighbor lookup.
package profile
