// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides key and token generation for organizers and
participants.

# Organizer Keys

Organizer keys are HMAC-SHA256 over the event id with a server-side salt:

	key := auth.GenerateOrganizerKey(eventID, salt)
	err := auth.ValidateOrganizerKey(eventID, key, salt)

Being deterministic, they are verified without any storage. The key gates
the owner-only operations: finalize and the aggregates view.

# Participant Tokens

Participant tokens are 192-bit random values handed out at registration and
stored alongside the participant row. They identify the submitting user on
response and suggestion requests.

# IDs

GenerateID produces random hex identifiers for documents.
*/
package auth
