// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/slotpick/slotpick/auth"
	"github.com/slotpick/slotpick/cliparse"
	"github.com/slotpick/slotpick/db"
	"github.com/slotpick/slotpick/models"
)

// Candidate instants reused across tests.
const (
	Date1 = "2025-06-01T18:00:00Z"
	Date2 = "2025-06-02T18:00:00Z"
	Date3 = "2025-06-03T18:00:00Z"
)

// SetupTestStore opens a fresh in-memory SQLite database with the full
// schema. Each call gets its own database.
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.NewStore(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3414,
		DatabaseType:     "sqlite",
		DatabaseURL:      ":memory:",
		OrganizerKeySalt: "test-organizer-salt",
		SuggestionLimit:  cliparse.DefaultSuggestionLimit,
		MaxSuggestions:   cliparse.DefaultMaxSuggestions,
	}
}

// NewTestEvent builds an event document with two candidate dates and two
// candidate places, user additions allowed.
func NewTestEvent() *models.Event {
	return &models.Event{
		ID:   uuid.NewString(),
		Name: "Team Offsite",
		EventDates: models.DateConfig{
			Values:       []string{Date1, Date2},
			AllowUserAdd: true,
		},
		EventPlaces: models.PlaceConfig{
			Values:       []string{"Cafe Luna", "The Office"},
			AllowUserAdd: true,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// CreateTestEvent persists an event and returns it with its organizer key.
func CreateTestEvent(t *testing.T, store *db.Store, cfg cliparse.Config, event *models.Event) (*models.Event, string) {
	t.Helper()

	if event == nil {
		event = NewTestEvent()
	}
	if err := store.CreateEvent(event); err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return event, auth.GenerateOrganizerKey(event.ID, cfg.OrganizerKeySalt)
}

// CreateTestParticipant registers a participant and returns it with the
// token populated.
func CreateTestParticipant(t *testing.T, store *db.Store, eventID, email string) *models.Participant {
	t.Helper()

	token, err := auth.GenerateParticipantToken()
	if err != nil {
		t.Fatalf("Failed to generate participant token: %v", err)
	}
	p := &models.Participant{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Email:     email,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateParticipant(p); err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
	return p
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
