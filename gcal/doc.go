// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package gcal publishes finalized events to Google Calendar. The
// integration is optional; a NopPublisher stands in when no credentials
// are configured.
package gcal
