// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/slotpick/slotpick/models"
	"github.com/slotpick/slotpick/vote"
)

// ErrVersionConflict is returned when a compare-and-swap update lost
// against a concurrent writer; callers re-read the event and retry.
var ErrVersionConflict = errors.New("event version conflict")

// Store persists the domain documents. Events, responses, and finalized
// outcomes are JSON documents in single rows, so the store's unit of
// atomicity is one document, matching the engine's merge model.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateEvent inserts a new event document at version 1.
func (s *Store) CreateEvent(e *models.Event) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO event (id, doc, version, created_at)
		VALUES ($1, $2, 1, $3)
	`, e.ID, string(doc), e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return vote.ErrConflict
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetEvent loads an event document and its current version.
func (s *Store) GetEvent(id string) (*models.Event, int64, error) {
	var doc string
	var version int64
	err := s.db.QueryRow(`
		SELECT doc, version FROM event WHERE id = $1
	`, id).Scan(&doc, &version)
	if err == sql.ErrNoRows {
		return nil, 0, vote.ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("query event: %w", err)
	}
	var e models.Event
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return nil, 0, fmt.Errorf("unmarshal event %s: %w", id, err)
	}
	return &e, version, nil
}

// UpdateEvent writes the event document back iff nobody else wrote it since
// it was read at expectedVersion.
func (s *Store) UpdateEvent(e *models.Event, expectedVersion int64) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	res, err := s.db.Exec(`
		UPDATE event SET doc = $1, version = version + 1
		WHERE id = $2 AND version = $3
	`, string(doc), e.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

// CreateParticipant registers an invitee. The (event, email) uniqueness
// constraint turns a double registration into a Conflict.
func (s *Store) CreateParticipant(p *models.Participant) error {
	_, err := s.db.Exec(`
		INSERT INTO participant (id, event_id, email, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.EventID, p.Email, p.Token, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return vote.ErrConflict
		}
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// GetParticipantByToken resolves a participant token for an event.
func (s *Store) GetParticipantByToken(eventID, token string) (*models.Participant, error) {
	p := &models.Participant{EventID: eventID, Token: token}
	err := s.db.QueryRow(`
		SELECT id, email FROM participant
		WHERE event_id = $1 AND token = $2
	`, eventID, token).Scan(&p.ID, &p.Email)
	if err == sql.ErrNoRows {
		return nil, vote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query participant: %w", err)
	}
	return p, nil
}

// GetResponse loads one user's response document for an event.
func (s *Store) GetResponse(eventID, userID string) (*models.EventResponse, error) {
	var doc string
	err := s.db.QueryRow(`
		SELECT doc FROM event_response WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, vote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query response: %w", err)
	}
	var r models.EventResponse
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &r, nil
}

// UpsertResponse writes a user's response, last-write-wins per (event,
// user). The row id and first-submission identity survive an update.
func (s *Store) UpsertResponse(r *models.EventResponse) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO event_response (id, event_id, user_id, doc, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET doc = excluded.doc, submitted_at = excluded.submitted_at
	`, r.ID, r.EventID, r.UserID, string(doc), r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

// ListResponses returns all responses for an event in a stable order
// (submission time, then user id); the aggregator depends on it.
func (s *Store) ListResponses(eventID string) ([]*models.EventResponse, error) {
	rows, err := s.db.Query(`
		SELECT doc FROM event_response
		WHERE event_id = $1
		ORDER BY submitted_at ASC, user_id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []*models.EventResponse
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		var r models.EventResponse
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// CreateFinalized writes the outcome document once. A second finalize hits
// the primary key and comes back as Conflict without touching the first.
func (s *Store) CreateFinalized(f *models.FinalizedEvent) error {
	doc, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal finalized event: %w", err)
	}
	res, err := s.db.Exec(`
		INSERT INTO finalized_event (event_id, doc, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
	`, f.EventID, string(doc), f.FinalizedAt)
	if err != nil {
		return fmt.Errorf("insert finalized event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert finalized event: %w", err)
	}
	if n == 0 {
		return vote.ErrConflict
	}
	return nil
}

// GetFinalized loads the outcome document, or ErrNotFound while the event
// is still open.
func (s *Store) GetFinalized(eventID string) (*models.FinalizedEvent, error) {
	var doc string
	err := s.db.QueryRow(`
		SELECT doc FROM finalized_event WHERE event_id = $1
	`, eventID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, vote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query finalized event: %w", err)
	}
	var f models.FinalizedEvent
	if err := json.Unmarshal([]byte(doc), &f); err != nil {
		return nil, fmt.Errorf("unmarshal finalized event: %w", err)
	}
	return &f, nil
}

// isUniqueViolation matches the driver-specific uniqueness errors of the
// two supported backends (lib/pq and modernc sqlite).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
