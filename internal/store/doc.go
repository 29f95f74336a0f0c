// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package store persists snapshots of the shared engine state (user profiles
and trending counters) in BadgerDB so a restarted process resumes with its
learned state.

Key layout:

	profile:<user_id>    recommend.UserProfile as JSON
	trending:<item_id>   trending.Record as JSON
	meta:snapshot        Meta as JSON, written last

A snapshot replaces the previous one. Load returns ErrSnapshotNotFound when
no complete snapshot has been written.
*/
package store
