// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"sort"

	"github.com/slotpick/slotpick/models"
)

// Suggestion keys for the built-in categories; custom fields are keyed by
// their field id.
const (
	SuggestionKeyDates  = "dates"
	SuggestionKeyPlaces = "places"
)

// OtherUserSuggestions derives, for the requesting user, what everyone else
// suggested per date/place/custom field. Values are deduplicated
// case-sensitively in first-seen order over a stable response ordering
// (submission time, then user id), so the same page request against an
// unchanged response set always returns the same slice. Voter identity
// never leaks: only the values appear, never who contributed them.
//
// page is 1-based. maxSuggestions caps how many values a single key may
// deliver across all pages combined; once the cap is reached hasMoreByField
// reports false even if more data exists.
func OtherUserSuggestions(event *models.Event, responses []*models.EventResponse, requesterID string, page, limit, maxSuggestions int) *models.SuggestionsResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	ordered := make([]*models.EventResponse, 0, len(responses))
	for _, r := range responses {
		if r.UserID == requesterID {
			continue
		}
		ordered = append(ordered, r)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].SubmittedAt.Equal(ordered[j].SubmittedAt) {
			return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	unions := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	add := func(key string, values []string) {
		for _, v := range values {
			if seen[key] == nil {
				seen[key] = make(map[string]bool)
			}
			if seen[key][v] {
				continue
			}
			seen[key][v] = true
			unions[key] = append(unions[key], v)
		}
	}
	for _, r := range ordered {
		add(SuggestionKeyDates, r.SuggestedDates)
		add(SuggestionKeyPlaces, r.SuggestedPlaces)
		for _, fid := range sortedKeys(r.SuggestedOptions) {
			if _, ok := event.CustomFields[fid]; !ok {
				continue
			}
			add(fid, r.SuggestedOptions[fid])
		}
	}

	out := &models.SuggestionsResponse{
		Suggestions:    make(map[string][]string, len(unions)),
		HasMoreByField: make(map[string]bool, len(unions)),
	}
	for key, values := range unions {
		eff := len(values)
		if maxSuggestions > 0 && eff > maxSuggestions {
			eff = maxSuggestions
		}
		start := (page - 1) * limit
		end := start + limit
		if start > eff {
			start = eff
		}
		if end > eff {
			end = eff
		}
		out.Suggestions[key] = append([]string(nil), values[start:end]...)

		delivered := page * limit
		if delivered > eff {
			delivered = eff
		}
		more := delivered < eff
		out.HasMoreByField[key] = more
		if more {
			out.HasMore = true
		}
	}
	return out
}
