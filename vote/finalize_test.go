// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/slotpick/slotpick/models"
)

// finalizableEvent builds an event with votes already merged in: two users
// voted on dates/places, answered a radio food field and a text field.
func finalizableEvent(t *testing.T) (*models.Event, []*models.EventResponse) {
	t.Helper()

	event := radioEvent(true)
	event.EventPlaces = models.PlaceConfig{Values: []string{"Cafe Luna", "The Office"}}
	event.CustomFields["wish"] = &models.CustomField{
		ID:    "wish",
		Type:  models.FieldText,
		Title: "Wish",
	}

	var responses []*models.EventResponse
	subs := []struct {
		user string
		req  models.SubmitResponseRequest
	}{
		{"u1", models.SubmitResponseRequest{
			SelectedDates:  []string{date1},
			SelectedPlaces: []string{"Cafe Luna"},
			FieldResponses: rawFields(`"Pizza"`, `"window seat"`),
		}},
		{"u2", models.SubmitResponseRequest{
			SelectedDates:  []string{date1},
			SelectedPlaces: []string{"The Office"},
			FieldResponses: rawFields(`"Tacos"`, `"aisle seat"`),
		}},
	}
	for _, s := range subs {
		staged, resp, err := Merge(event, nil, s.user, s.user+"@example.com", &s.req)
		if err != nil {
			t.Fatalf("merge for %s failed: %v", s.user, err)
		}
		event = staged
		responses = append(responses, resp)
	}
	return event, responses
}

func rawFields(food, wish string) map[string]json.RawMessage {
	return map[string]json.RawMessage{
		"food": json.RawMessage(food),
		"wish": json.RawMessage(wish),
	}
}

func TestFinalizeHappyPath(t *testing.T) {
	event, responses := finalizableEvent(t)

	out, err := Finalize(event, responses, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  date1,
			"category-place-0": "Cafe Luna",
			"category-Food-0":  "Pizza",
		},
		TextSelections: map[string]string{"wish": "u1"},
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if out.FinalizedDate != date1 {
		t.Errorf("Expected finalized date %s, got %s", date1, out.FinalizedDate)
	}
	if out.FinalizedPlace != "Cafe Luna" {
		t.Errorf("Expected finalized place Cafe Luna, got %s", out.FinalizedPlace)
	}

	food := out.CustomFieldSelections["food"]
	if food.Value != "Pizza" {
		t.Errorf("Expected Pizza, got %q", food.Value)
	}
	if len(food.Voters) != 1 || food.Voters[0].UserID != "u1" {
		t.Errorf("Expected voter roster [u1], got %v", food.Voters)
	}

	wish := out.CustomFieldSelections["wish"]
	if wish.Value != "window seat" {
		t.Errorf("Expected u1's text answer, got %q", wish.Value)
	}
}

func TestFinalizeTieGroups(t *testing.T) {
	event, responses := finalizableEvent(t)

	// The UI may split tied options across several keyed dropdowns; the
	// first in sorted key order wins
	out, err := Finalize(event, responses, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-1":  date2,
			"category-date-0":  date1,
			"category-place-0": "Cafe Luna",
		},
		TextSelections: map[string]string{"wish": "u2"},
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if out.FinalizedDate != date1 {
		t.Errorf("Expected sorted-first key to win, got %s", out.FinalizedDate)
	}
}

func TestFinalizeValidation(t *testing.T) {
	event, responses := finalizableEvent(t)

	tests := []struct {
		name    string
		req     models.FinalizeRequest
		wantErr error
	}{
		{
			name: "missing date",
			req: models.FinalizeRequest{
				CategorySelections: map[string]string{"category-place-0": "Cafe Luna"},
			},
			wantErr: ErrValidation,
		},
		{
			name: "missing place when places configured",
			req: models.FinalizeRequest{
				CategorySelections: map[string]string{"category-date-0": date1},
			},
			wantErr: ErrValidation,
		},
		{
			name: "unknown date option",
			req: models.FinalizeRequest{
				CategorySelections: map[string]string{
					"category-date-0":  "2030-01-01T00:00:00Z",
					"category-place-0": "Cafe Luna",
				},
			},
			wantErr: ErrValidation,
		},
		{
			name: "unknown custom option",
			req: models.FinalizeRequest{
				CategorySelections: map[string]string{
					"category-date-0":  date1,
					"category-place-0": "Cafe Luna",
					"category-Food-0":  "Sushi",
				},
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Finalize(event, responses, &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFinalizeTextFallbacks(t *testing.T) {
	event, responses := finalizableEvent(t)
	event.CustomFields["note"] = &models.CustomField{
		ID:       "note",
		Type:     models.FieldText,
		Title:    "Note",
		Readonly: true,
		Value:    "Bring snacks",
	}

	out, err := Finalize(event, responses, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  date1,
			"category-place-0": "Cafe Luna",
		},
		TextSelections: map[string]string{
			"note": models.TextSelectionDefault,
			"wish": "ghost-user",
		},
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if got := out.CustomFieldSelections["note"].Value; got != "Bring snacks" {
		t.Errorf("Expected configured default, got %q", got)
	}
	// A vanished respondent degrades to a placeholder, never an error
	if got := out.CustomFieldSelections["wish"].Value; got != "(response unavailable)" {
		t.Errorf("Expected placeholder for missing respondent, got %q", got)
	}
}

func TestFinalizeListMaxEntries(t *testing.T) {
	event, responses := finalizableEvent(t)
	event.CustomFields["agenda"] = &models.CustomField{
		ID:         "agenda",
		Type:       models.FieldList,
		Title:      "Agenda",
		MaxEntries: 2,
	}

	_, err := Finalize(event, responses, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  date1,
			"category-place-0": "Cafe Luna",
		},
		ListSelections: map[string][]string{"agenda": {"A", "B", "C"}},
	})
	if !errors.Is(err, ErrMaxEntriesExceeded) {
		t.Fatalf("Expected ErrMaxEntriesExceeded, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "Agenda" {
		t.Errorf("Error should name the field, got %v", err)
	}
}

func TestFinalizeRequiredField(t *testing.T) {
	event, responses := finalizableEvent(t)
	event.CustomFields["food"].Required = true

	// No pick for the required food field
	_, err := Finalize(event, responses, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  date1,
			"category-place-0": "Cafe Luna",
		},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected validation error for required field, got %v", err)
	}
}

func TestFinalizeBeforeAnyResponse(t *testing.T) {
	// Voting categories only materialize on the first merge; a configured
	// date must still be selectable on a response-less event.
	event := dateEvent(false)
	event.EventPlaces = models.PlaceConfig{Values: []string{"Cafe Luna"}}

	out, err := Finalize(event, nil, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  date1,
			"category-place-0": "Cafe Luna",
		},
	})
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if out.FinalizedDate != date1 || out.FinalizedPlace != "Cafe Luna" {
		t.Errorf("Unexpected outcome: %+v", out)
	}

	_, err = Finalize(event, nil, &models.FinalizeRequest{
		CategorySelections: map[string]string{
			"category-date-0":  "2031-01-01T00:00:00Z",
			"category-place-0": "Cafe Luna",
		},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected validation error for unconfigured date, got %v", err)
	}
}
