// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Slotpick API server.

Slotpick is a group scheduling service: an organizer configures candidate
dates, places, and custom fields; invitees vote and suggest alternatives;
the organizer consolidates the votes into one finalized outcome.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=slotpick.db ORGANIZER_KEY_SALT=... go run .

Or with flags:

	go run . -p 3414 -t sqlite -d slotpick.db -organizer-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ORGANIZER_KEY_SALT (-organizer-salt): Secret for organizer key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3414)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - -c: YAML config file with the same settings plus suggestion paging
    defaults and Google Calendar credentials

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (events, responses, finalization)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - models: Request/response and document types
  - vote: The merge engine, suggestion aggregator, and finalization rules
  - auth: Token generation and validation
  - db: Document store over SQLite or PostgreSQL
  - metrics: Prometheus counters
  - gcal: Optional Google Calendar publishing
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
