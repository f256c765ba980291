// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/slotpick/slotpick/cliparse"
	"github.com/slotpick/slotpick/db"
	"github.com/slotpick/slotpick/gcal"
	"github.com/slotpick/slotpick/handlers"
	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/middleware"
)

func NewRouter(store *db.Store, cfg cliparse.Config, mtr *metrics.Metrics, publisher gcal.Publisher) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(store, cfg, mtr)
	responseHandler := handlers.NewResponseHandler(store, cfg, mtr)
	finalizeHandler := handlers.NewFinalizeHandler(store, cfg, mtr, publisher)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", mtr.Handler())

	// Event management (organizer operations)
	mux.HandleFunc("POST /events", middleware.WithLogging(eventHandler.Create))
	mux.HandleFunc("GET /events/{id}/aggregates", middleware.WithLogging(eventHandler.Aggregates))
	mux.HandleFunc("POST /events/{id}/finalize", middleware.WithLogging(finalizeHandler.Finalize))

	// Participant operations (public with token auth)
	mux.HandleFunc("GET /events/{id}", middleware.WithLogging(eventHandler.Get))
	mux.HandleFunc("POST /events/{id}/participants", middleware.WithLogging(responseHandler.Register))
	mux.HandleFunc("PUT /events/{id}/response", middleware.WithLogging(responseHandler.Submit))
	mux.HandleFunc("GET /events/{id}/suggestions", middleware.WithLogging(responseHandler.Suggestions))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("slotpick API v1"))
	})

	return mux
}
