// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
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

// maxMergeRetries bounds the optimistic-concurrency retry loop when two
// participants submit against the same event version.
const maxMergeRetries = 5

type ResponseHandler struct {
	store *db.Store
	cfg   cliparse.Config
	mtr   *metrics.Metrics
}

func NewResponseHandler(store *db.Store, cfg cliparse.Config, mtr *metrics.Metrics) *ResponseHandler {
	return &ResponseHandler{store: store, cfg: cfg, mtr: mtr}
}

// Register handles POST /events/{id}/participants
func (h *ResponseHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	var req models.RegisterParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	// Verify the event exists before minting a token for it.
	if _, _, err := h.store.GetEvent(eventID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	token, err := auth.GenerateParticipantToken()
	if err != nil {
		slog.Error("failed to generate participant token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	participant := &models.Participant{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Email:     req.Email,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreateParticipant(participant); err != nil {
		if errors.Is(err, vote.ErrConflict) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered for this event")
			return
		}
		slog.Error("failed to create participant", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("participant registered", "event_id", eventID, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterParticipantResponse{
		ParticipantID:    participant.ID,
		ParticipantToken: token,
	})
}

// Submit handles PUT /events/{id}/response
// The whole submission replaces the participant's prior one. The merge runs
// against a snapshot of the event document and commits with a version check;
// on a conflict the merge is recomputed against the fresh document.
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	participant, ok := h.authenticate(w, r, eventID)
	if !ok {
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// A finalized event no longer accepts responses.
	if _, err := h.store.GetFinalized(eventID); err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Event has been finalized")
		return
	} else if !errors.Is(err, vote.ErrNotFound) {
		slog.Error("failed to check finalized state", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var merged *models.EventResponse
	var isUpdate bool

	for attempt := 0; ; attempt++ {
		event, version, err := h.store.GetEvent(eventID)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		prior, err := h.store.GetResponse(eventID, participant.ID)
		if err != nil && !errors.Is(err, vote.ErrNotFound) {
			slog.Error("failed to load prior response", "error", err, "event_id", eventID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		isUpdate = prior != nil

		staged, resp, err := vote.Merge(event, prior, participant.ID, participant.Email, &req)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		resp.SubmittedAt = time.Now().UTC()
		if prior != nil {
			resp.ID = prior.ID
		} else {
			resp.ID = uuid.NewString()
		}

		err = h.store.UpdateEvent(staged, version)
		if errors.Is(err, db.ErrVersionConflict) {
			h.mtr.VersionConflicts.Inc()
			if attempt+1 >= maxMergeRetries {
				middleware.ErrorResponse(w, http.StatusConflict, "Event is being updated, please retry")
				return
			}
			continue
		}
		if err != nil {
			slog.Error("failed to update event", "error", err, "event_id", eventID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
			return
		}

		if err := h.store.UpsertResponse(resp); err != nil {
			slog.Error("failed to save response", "error", err, "event_id", eventID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
			return
		}
		merged = resp
		break
	}

	message := "Response submitted successfully"
	status := http.StatusCreated
	if isUpdate {
		message = "Response updated successfully"
		status = http.StatusOK
	}

	h.mtr.ResponsesSubmitted.Inc()
	slog.Info("response submitted", "event_id", eventID, "user_id", participant.ID, "is_update", isUpdate)

	middleware.JSONResponse(w, status, models.SubmitResponseResponse{
		Response: merged,
		Message:  message,
	})
}

// Suggestions handles GET /events/{id}/suggestions
// Paginated union of what other participants have suggested, for the
// "others proposed" panel.
func (h *ResponseHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	participant, ok := h.authenticate(w, r, eventID)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", h.cfg.SuggestionLimit)
	maxSuggestions := queryInt(r, "maxSuggestions", h.cfg.MaxSuggestions)
	if page < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "page must be >= 1")
		return
	}
	if limit < 1 || limit > h.cfg.MaxSuggestions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit out of range")
		return
	}
	// Clients may tighten the cap but never raise it past the server's
	if maxSuggestions < 1 || maxSuggestions > h.cfg.MaxSuggestions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "maxSuggestions out of range")
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

	h.mtr.SuggestionQueries.Inc()

	middleware.JSONResponse(w, http.StatusOK,
		vote.OtherUserSuggestions(event, responses, participant.ID, page, limit, maxSuggestions))
}

// authenticate resolves the X-Participant-Token header to a participant of
// the event, writing the error response itself on failure.
func (h *ResponseHandler) authenticate(w http.ResponseWriter, r *http.Request, eventID string) (*models.Participant, bool) {
	token := r.Header.Get("X-Participant-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-Token header required")
		return nil, false
	}

	participant, err := h.store.GetParticipantByToken(eventID, token)
	if errors.Is(err, vote.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token for this event")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to look up participant", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return participant, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
