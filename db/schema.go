// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is portable between Postgres and SQLite: documents are JSON
// text, timestamps are written by the application (no NOW() defaults).
const schema = `
-- Events (the document embeds the voting category state; version backs
-- optimistic concurrency on merge)
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    doc TEXT NOT NULL,
    version INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (event_id, email),
    UNIQUE (event_id, token)
);

CREATE INDEX IF NOT EXISTS idx_participant_event_id ON participant(event_id);

-- Responses (one per event and user)
CREATE TABLE IF NOT EXISTS event_response (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    doc TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    UNIQUE (event_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_event_response_event_id ON event_response(event_id);

-- Finalized outcomes (write-once; the primary key is the create-if-not-exists guard)
CREATE TABLE IF NOT EXISTS finalized_event (
    event_id TEXT PRIMARY KEY REFERENCES event(id) ON DELETE CASCADE,
    doc TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`
