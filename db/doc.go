// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the domain documents behind database/sql.

# Document Model

Events, responses, and finalized outcomes are stored as whole JSON
documents in single rows. The unit of atomicity is one document: an event
write replaces the full document (voting categories included), guarded by a
version column.

	event            id, doc, version, created_at
	participant      id, event_id, email, token, created_at
	event_response   id, event_id, user_id, doc, submitted_at
	finalized_event  event_id, doc, created_at

# Concurrency

UpdateEvent is a compare-and-swap on the version column and returns
ErrVersionConflict when it loses; the handler re-reads and re-merges.
CreateFinalized relies on the primary key for its once-only guarantee, and
event_response has a uniqueness constraint per (event_id, user_id).

# Backends

The SQL is portable between Postgres (github.com/lib/pq) and SQLite
(modernc.org/sqlite): placeholders are ordinal, timestamps are written by
the application, and upserts use ON CONFLICT. Open selects the driver from
the configured database type. Tests run on an in-memory SQLite database.
*/
package db
