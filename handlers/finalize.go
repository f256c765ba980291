// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/slotpick/slotpick/auth"
	"github.com/slotpick/slotpick/cliparse"
	"github.com/slotpick/slotpick/db"
	"github.com/slotpick/slotpick/gcal"
	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/middleware"
	"github.com/slotpick/slotpick/models"
	"github.com/slotpick/slotpick/vote"
)

const publishTimeout = 10 * time.Second

type FinalizeHandler struct {
	store     *db.Store
	cfg       cliparse.Config
	mtr       *metrics.Metrics
	publisher gcal.Publisher
}

func NewFinalizeHandler(store *db.Store, cfg cliparse.Config, mtr *metrics.Metrics, publisher gcal.Publisher) *FinalizeHandler {
	return &FinalizeHandler{store: store, cfg: cfg, mtr: mtr, publisher: publisher}
}

// Finalize handles POST /events/{id}/finalize
// Consolidates the organizer's selections into the single immutable outcome.
// Finalizing twice is a conflict; the first outcome stands.
func (h *FinalizeHandler) Finalize(w http.ResponseWriter, r *http.Request) {
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

	var req models.FinalizeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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

	finalized, err := vote.Finalize(event, responses, &req)
	if err != nil {
		h.mtr.Finalizations.WithLabelValues("invalid").Inc()
		middleware.WriteError(w, err)
		return
	}
	finalized.FinalizedBy = "organizer"
	finalized.FinalizedAt = time.Now().UTC()

	if err := h.store.CreateFinalized(finalized); err != nil {
		if errors.Is(err, vote.ErrConflict) {
			h.mtr.Finalizations.WithLabelValues("conflict").Inc()
			middleware.ErrorResponse(w, http.StatusConflict, "Event has already been finalized")
			return
		}
		slog.Error("failed to persist finalized event", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to finalize event")
		return
	}

	h.mtr.Finalizations.WithLabelValues("ok").Inc()
	slog.Info("event finalized", "event_id", eventID, "date", finalized.FinalizedDate, "place", finalized.FinalizedPlace)

	// Calendar publishing is best effort; the finalization already committed.
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := h.publisher.Publish(ctx, event, finalized); err != nil {
		slog.Warn("failed to publish finalized event to calendar", "error", err, "event_id", eventID)
	}

	middleware.JSONResponse(w, http.StatusCreated, finalized)
}
