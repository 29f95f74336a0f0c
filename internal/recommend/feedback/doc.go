// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package feedback turns ratings and review comments into learned per-user,
per-item preferences.

Two strategies implement recommend.FeedbackStrategy:

  - Simple: substring sentiment over a short word list with a flat +/-0.3
    adjustment, plus a per-user rating history.
  - Advanced: whole-word, case-insensitive sentiment over larger word lists
    (0.5 + 0.15*pos - 0.15*neg), damped by 0.8 for contrast conjunctions and
    nudged by 0.1 for exclamation marks.

Both store preferences the same way. RecordReview writes

	pref = (rating/5 + sentiment) / 2

and UpdateFromFeedback smooths the stored value toward the event:

	new = old*0.7 + incoming*0.3

where old defaults to 0.5 and incoming uses rating/5 as the sentiment when
the event has no comment.

Preferences are held per user behind a per-user mutex, so writers for
different users never contend.
*/
package feedback
