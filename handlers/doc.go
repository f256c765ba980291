// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers implements the HTTP endpoints. Handlers parse and
// authenticate requests, delegate the domain work to the vote package,
// and persist through the db package. Organizer endpoints authenticate
// with X-Organizer-Key, participant endpoints with X-Participant-Token.
package handlers
