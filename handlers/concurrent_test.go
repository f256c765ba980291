// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/models"
	"github.com/slotpick/slotpick/testutil"
)

// TestConcurrentResponseSubmissions verifies that simultaneous submissions
// from different participants all land despite version conflicts on the
// shared event document
func TestConcurrentResponseSubmissions(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	responseHandler := NewResponseHandler(store, cfg, metrics.New())

	event, _ := testutil.CreateTestEvent(t, store, cfg, testutil.NewTestEvent())

	// Pre-register participants; the submit retry loop absorbs one conflict
	// per competing writer
	numParticipants := 5
	tokens := make([]string, numParticipants)
	for i := 0; i < numParticipants; i++ {
		p := testutil.CreateTestParticipant(t, store, event.ID,
			fmt.Sprintf("voter%d@example.com", i))
		tokens[i] = p.Token
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numParticipants; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			date := testutil.Date1
			if idx%2 == 1 {
				date = testutil.Date2
			}
			req := testutil.MakeRequest("PUT", "/events/"+event.ID+"/response",
				models.SubmitResponseRequest{SelectedDates: []string{date}},
				map[string]string{"X-Participant-Token": tokens[idx]})
			req.SetPathValue("id", event.ID)
			w := httptest.NewRecorder()

			responseHandler.Submit(w, req)

			if w.Code == http.StatusCreated || w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numParticipants {
		t.Errorf("Expected %d successful submissions, got %d", numParticipants, successCount.Load())
	}

	// Exactly one response row per participant
	responses, err := store.ListResponses(event.ID)
	if err != nil {
		t.Fatalf("Failed to list responses: %v", err)
	}
	if len(responses) != numParticipants {
		t.Errorf("Expected %d responses, got %d", numParticipants, len(responses))
	}

	// The merged event must hold every vote
	merged, _, err := store.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	var totalVotes int
	for _, cat := range merged.VotingCategories {
		if cat.CategoryName != models.CategoryDate {
			continue
		}
		for _, opt := range cat.Options {
			totalVotes += len(opt.Votes)
		}
	}
	if totalVotes != numParticipants {
		t.Errorf("Expected %d date votes in the event document, got %d", numParticipants, totalVotes)
	}
}

// TestConcurrentRegistrationSameEmail verifies that racing registrations for
// one email yield exactly one participant
func TestConcurrentRegistrationSameEmail(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	responseHandler := NewResponseHandler(store, cfg, metrics.New())

	event, _ := testutil.CreateTestEvent(t, store, cfg, testutil.NewTestEvent())

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/events/"+event.ID+"/participants",
				models.RegisterParticipantRequest{Email: "contested@example.com"}, nil)
			req.SetPathValue("id", event.ID)
			w := httptest.NewRecorder()

			responseHandler.Register(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else if w.Code != http.StatusConflict {
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful registration, got %d", successCount.Load())
	}
}
