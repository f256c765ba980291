// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote implements the response aggregation and consolidation engine:
everything between "a participant submitted this payload" and "the event
document now reflects it".

The package is pure logic over models values. It performs no I/O; callers
load the event and its responses, hand them in, and persist whatever comes
back.

# Category Store

Voting state lives in VotingCategory/VotingOption values embedded in the
event document. The primitives are:

	EnsureCategory(event, name, fieldID)
	EnsureOption(category, name)
	SetUserSingleSelection(category, user, option)
	SetUserMultiSelection(category, user, options)

Option names are unique per category (case-sensitive), insertion order is
preserved, and single-select categories keep each user in at most one
option (CheckSingleSelection verifies this).

# Merge Engine

Merge applies one user's full submission:

	staged, response, err := vote.Merge(event, prior, userID, email, req)

It validates every category and field first, mutates only a deep copy, and
returns the copy plus the EventResponse to persist. On any error the input
event is untouched, so a failed submission never half-applies. Resubmission
of the identical payload is idempotent.

# Suggestion Aggregator

OtherUserSuggestions unions what other participants suggested per
date/place/custom field, deduplicated in first-seen order, paginated, and
capped by maxSuggestions. Contributor identity is never included.

# Finalization

Finalize resolves the organizer's raw UI selections into a single
FinalizedEvent, validating required/readonly/maxEntries rules per field
variant and failing fast with the first violation.

# Errors

Business failures are *ValidationError values matching ErrValidation via
errors.Is, with specific kinds (ErrTooManyVotes, ErrDuplicateOption,
ErrSuggestionNotAllowed, ErrReadonlyViolation, ErrMaxEntriesExceeded).
ErrNotFound and ErrConflict cover missing and already-finalized state.
*/
package vote
