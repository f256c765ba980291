// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slotpick/slotpick/gcal"
	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/models"
	"github.com/slotpick/slotpick/testutil"
)

func TestFinalizeEvent(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	mtr := metrics.New()
	responseHandler := NewResponseHandler(store, cfg, mtr)
	finalizeHandler := NewFinalizeHandler(store, cfg, mtr, gcal.NopPublisher{})

	event, organizerKey := testutil.CreateTestEvent(t, store, cfg, nil)
	p := testutil.CreateTestParticipant(t, store, event.ID, "alice@example.com")

	// One vote so the finalized picks are real options
	req := testutil.MakeRequest("PUT", "/events/"+event.ID+"/response", models.SubmitResponseRequest{
		SelectedDates:  []string{testutil.Date1},
		SelectedPlaces: []string{"Cafe Luna"},
	}, map[string]string{"X-Participant-Token": p.Token})
	req.SetPathValue("id", event.ID)
	w := httptest.NewRecorder()
	responseHandler.Submit(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	finalize := func(key string, body interface{}) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/events/"+event.ID+"/finalize", body,
			map[string]string{"X-Organizer-Key": key})
		req.SetPathValue("id", event.ID)
		w := httptest.NewRecorder()
		finalizeHandler.Finalize(w, req)
		return w
	}

	valid := models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  testutil.Date1,
			"category-place-0": "Cafe Luna",
		},
	}

	// Organizer key required
	w = finalize("", valid)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Picks must be existing options
	w = finalize(organizerKey, models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  "2030-01-01T00:00:00Z",
			"category-place-0": "Cafe Luna",
		},
	})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Valid finalize
	w = finalize(organizerKey, valid)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var out models.FinalizedEvent
	testutil.AssertJSON(t, w, &out)
	if out.FinalizedDate != testutil.Date1 || out.FinalizedPlace != "Cafe Luna" {
		t.Errorf("Unexpected outcome: %+v", out)
	}

	stored, err := store.GetFinalized(event.ID)
	if err != nil {
		t.Fatalf("Failed to load finalized event: %v", err)
	}
	if stored.FinalizedDate != testutil.Date1 {
		t.Errorf("Outcome not persisted: %+v", stored)
	}

	// Finalizing twice conflicts; the first outcome stands
	w = finalize(organizerKey, models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  testutil.Date2,
			"category-place-0": "The Office",
		},
	})
	testutil.AssertStatus(t, w, http.StatusConflict)

	stored, err = store.GetFinalized(event.ID)
	if err != nil {
		t.Fatalf("Failed to reload finalized event: %v", err)
	}
	if stored.FinalizedDate != testutil.Date1 {
		t.Errorf("Second finalize must not overwrite the first: %+v", stored)
	}
}
