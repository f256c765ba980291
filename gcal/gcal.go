// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/slotpick/slotpick/models"
)

const defaultDuration = time.Hour

// Publisher pushes a finalized event to an external calendar. Publishing
// is best effort; callers log failures and proceed.
type Publisher interface {
	Publish(ctx context.Context, event *models.Event, finalized *models.FinalizedEvent) error
}

// NopPublisher is used when no calendar integration is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.Event, *models.FinalizedEvent) error {
	return nil
}

// CalendarPublisher creates Google Calendar entries for finalized events.
type CalendarPublisher struct {
	service    *calendar.Service
	calendarID string
}

// NewCalendarPublisher builds a publisher from an OAuth credentials file
// and a previously saved token file.
func NewCalendarPublisher(ctx context.Context, credentialsFile, tokenFile, calendarID string) (*CalendarPublisher, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &CalendarPublisher{service: service, calendarID: calendarID}, nil
}

func (p *CalendarPublisher) Publish(ctx context.Context, event *models.Event, finalized *models.FinalizedEvent) error {
	start, err := time.Parse(time.RFC3339, finalized.FinalizedDate)
	if err != nil {
		return fmt.Errorf("parse finalized date: %w", err)
	}
	end := start.Add(defaultDuration)

	entry := &calendar.Event{
		Summary:     event.Name,
		Description: event.Description,
		Location:    finalized.FinalizedPlace,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}

	_, err = p.service.Events.Insert(p.calendarID, entry).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
