// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/slotpick/slotpick/auth"
	"github.com/slotpick/slotpick/cliparse"
	"github.com/slotpick/slotpick/db"
	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/middleware"
	"github.com/slotpick/slotpick/models"
	"github.com/slotpick/slotpick/vote"
)

type EventHandler struct {
	store *db.Store
	cfg   cliparse.Config
	mtr   *metrics.Metrics
}

func NewEventHandler(store *db.Store, cfg cliparse.Config, mtr *metrics.Metrics) *EventHandler {
	return &EventHandler{store: store, cfg: cfg, mtr: mtr}
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.EventDates.Values) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one candidate date is required")
		return
	}

	if err := vote.ValidateEventConfig(&req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	event := &models.Event{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		EventDates:   req.EventDates,
		EventPlaces:  req.EventPlaces,
		CustomFields: req.CustomFields,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateEvent(event); err != nil {
		slog.Error("failed to create event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	organizerKey := auth.GenerateOrganizerKey(event.ID, h.cfg.OrganizerKeySalt)

	h.mtr.EventsCreated.Inc()
	slog.Info("event created", "event_id", event.ID, "name", event.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateEventResponse{
		Event:        event,
		OrganizerKey: organizerKey,
	})
}

// Get handles GET /events/{id}
// Returns the participant-facing view: vote counts without voter identities.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	event, _, err := h.store.GetEvent(eventID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	finalized, err := h.store.GetFinalized(eventID)
	if err != nil && !errors.Is(err, vote.ErrNotFound) {
		slog.Error("failed to load finalized event", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote.PublicView(event, finalized))
}

// Aggregates handles GET /events/{id}/aggregates
// Organizer-only: chart data with voter identities attached.
func (h *EventHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	organizerKey := r.Header.Get("X-Organizer-Key")
	if err := auth.ValidateOrganizerKey(eventID, organizerKey, h.cfg.OrganizerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid organizer key")
		return
	}

	event, _, err := h.store.GetEvent(eventID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	responses, err := h.store.ListResponses(eventID)
	if err != nil {
		slog.Error("failed to list responses", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote.Aggregates(event, responses))
}
