// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/models"
	"github.com/slotpick/slotpick/testutil"
)

func TestRegisterParticipant(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(store, cfg, metrics.New())

	event, _ := testutil.CreateTestEvent(t, store, cfg, nil)

	tests := []struct {
		name           string
		eventID        string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid registration",
			eventID:        event.ID,
			requestBody:    models.RegisterParticipantRequest{Email: "alice@example.com"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			eventID:        event.ID,
			requestBody:    models.RegisterParticipantRequest{Email: "alice@example.com"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing email",
			eventID:        event.ID,
			requestBody:    models.RegisterParticipantRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown event",
			eventID:        "missing",
			requestBody:    models.RegisterParticipantRequest{Email: "bob@example.com"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/events/"+tt.eventID+"/participants", tt.requestBody, nil)
			req.SetPathValue("id", tt.eventID)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.RegisterParticipantResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ParticipantID == "" || resp.ParticipantToken == "" {
					t.Errorf("Expected id and token, got %+v", resp)
				}
			}
		})
	}
}

func TestSubmitResponse(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(store, cfg, metrics.New())

	event, _ := testutil.CreateTestEvent(t, store, cfg, nil)
	p := testutil.CreateTestParticipant(t, store, event.ID, "alice@example.com")

	submit := func(token string, body interface{}) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/events/"+event.ID+"/response", body,
			map[string]string{"X-Participant-Token": token})
		req.SetPathValue("id", event.ID)
		w := httptest.NewRecorder()
		handler.Submit(w, req)
		return w
	}

	// First submission creates
	w := submit(p.Token, models.SubmitResponseRequest{
		SelectedDates:  []string{testutil.Date1},
		SelectedPlaces: []string{"Cafe Luna"},
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var first models.SubmitResponseResponse
	testutil.AssertJSON(t, w, &first)
	if first.Response == nil || first.Response.UserID != p.ID {
		t.Fatalf("Expected response for %s, got %+v", p.ID, first.Response)
	}

	// The vote landed in the event document
	stored, version, err := store.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version bump to 2, got %d", version)
	}
	cat := stored.Category(models.CategoryDate)
	if cat == nil || cat.Option(testutil.Date1) == nil || len(cat.Option(testutil.Date1).Votes) != 1 {
		t.Errorf("Expected recorded date vote, got %+v", cat)
	}

	// Resubmission replaces: switch the vote to Date2
	w = submit(p.Token, models.SubmitResponseRequest{
		SelectedDates: []string{testutil.Date2},
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	stored, _, err = store.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	cat = stored.Category(models.CategoryDate)
	if got := len(cat.Option(testutil.Date1).Votes); got != 0 {
		t.Errorf("Old vote should be replaced, still %d on Date1", got)
	}
	if got := len(cat.Option(testutil.Date2).Votes); got != 1 {
		t.Errorf("Expected vote on Date2, got %d", got)
	}

	// Exactly one response row per user
	responses, err := store.ListResponses(event.ID)
	if err != nil {
		t.Fatalf("Failed to list responses: %v", err)
	}
	if len(responses) != 1 {
		t.Errorf("Expected 1 response after resubmit, got %d", len(responses))
	}

	// Auth failures
	w = submit("", models.SubmitResponseRequest{})
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	w = submit("bogus-token", models.SubmitResponseRequest{})
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Domain validation surfaces as 400
	w = submit(p.Token, models.SubmitResponseRequest{
		SuggestedDates: []string{"next tuesday"},
	})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitAfterFinalizeRejected(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(store, cfg, metrics.New())

	event, _ := testutil.CreateTestEvent(t, store, cfg, nil)
	p := testutil.CreateTestParticipant(t, store, event.ID, "alice@example.com")

	if err := store.CreateFinalized(&models.FinalizedEvent{
		EventID:       event.ID,
		FinalizedDate: testutil.Date1,
	}); err != nil {
		t.Fatalf("Failed to finalize: %v", err)
	}

	req := testutil.MakeRequest("PUT", "/events/"+event.ID+"/response", models.SubmitResponseRequest{
		SelectedDates: []string{testutil.Date1},
	}, map[string]string{"X-Participant-Token": p.Token})
	req.SetPathValue("id", event.ID)
	w := httptest.NewRecorder()
	handler.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestSuggestions(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(store, cfg, metrics.New())

	event, _ := testutil.CreateTestEvent(t, store, cfg, nil)
	alice := testutil.CreateTestParticipant(t, store, event.ID, "alice@example.com")
	bob := testutil.CreateTestParticipant(t, store, event.ID, "bob@example.com")

	submit := func(p *models.Participant, body interface{}) {
		req := testutil.MakeRequest("PUT", "/events/"+event.ID+"/response", body,
			map[string]string{"X-Participant-Token": p.Token})
		req.SetPathValue("id", event.ID)
		w := httptest.NewRecorder()
		handler.Submit(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	submit(alice, models.SubmitResponseRequest{
		SuggestedDates:  []string{testutil.Date3},
		SuggestedPlaces: []string{"Rooftop"},
	})
	submit(bob, models.SubmitResponseRequest{
		SuggestedPlaces: []string{"Park"},
	})

	get := func(token, query string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/events/"+event.ID+"/suggestions"+query, nil,
			map[string]string{"X-Participant-Token": token})
		req.SetPathValue("id", event.ID)
		w := httptest.NewRecorder()
		handler.Suggestions(w, req)
		return w
	}

	// Alice sees only Bob's contributions
	w := get(alice.Token, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var out models.SuggestionsResponse
	testutil.AssertJSON(t, w, &out)
	if len(out.Suggestions["dates"]) != 0 {
		t.Errorf("Alice should not see her own dates, got %v", out.Suggestions["dates"])
	}
	if got := out.Suggestions["places"]; len(got) != 1 || got[0] != "Park" {
		t.Errorf("Expected [Park], got %v", got)
	}

	// Bob sees Alice's
	w = get(bob.Token, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	out = models.SuggestionsResponse{}
	testutil.AssertJSON(t, w, &out)
	if got := out.Suggestions["dates"]; len(got) != 1 || got[0] != testutil.Date3 {
		t.Errorf("Expected [%s], got %v", testutil.Date3, got)
	}

	// Parameter validation
	w = get(alice.Token, "?page=0")
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	w = get(alice.Token, "?limit=9999")
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	w = get(alice.Token, "?maxSuggestions=9999")
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Caller may tighten the cap
	w = get(bob.Token, "?maxSuggestions=1")
	testutil.AssertStatus(t, w, http.StatusOK)
	out = models.SuggestionsResponse{}
	testutil.AssertJSON(t, w, &out)
	if out.HasMoreByField["dates"] {
		t.Error("Cap of 1 reached, hasMoreByField must be false")
	}

	// Token required
	w = get("", "")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
