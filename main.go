package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/slotpick/slotpick/cliparse"
	"github.com/slotpick/slotpick/db"
	"github.com/slotpick/slotpick/gcal"
	"github.com/slotpick/slotpick/metrics"
	"github.com/slotpick/slotpick/middleware"
	"github.com/slotpick/slotpick/router"
)

func main() {
	// Load .env if present; real env wins
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	store := db.NewStore(dbConn)
	mtr := metrics.New()

	// Optional Google Calendar integration
	var publisher gcal.Publisher = gcal.NopPublisher{}
	if cfg.Google.CredentialsFile != "" && cfg.Google.CalendarID != "" {
		p, err := gcal.NewCalendarPublisher(context.Background(),
			cfg.Google.CredentialsFile, cfg.Google.TokenFile, cfg.Google.CalendarID)
		if err != nil {
			slog.Error("calendar integration failed", "error", err)
			os.Exit(1)
		}
		publisher = p
		slog.Info("Calendar publishing enabled", "calendar_id", cfg.Google.CalendarID)
	}

	// Create router
	mux := router.NewRouter(store, cfg, mtr, publisher)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
