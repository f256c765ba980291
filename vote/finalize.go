// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/slotpick/slotpick/models"
)

// missingTextPlaceholder substitutes for a text selection whose respondent
// record cannot be found. Deliberately degraded, never fatal.
const missingTextPlaceholder = "(response unavailable)"

// Finalize converts the organizer's raw UI selections into one validated
// outcome per category/field. categorySelections keys look like
// "category-<name>-<groupIndex>" because the UI may spread tied options
// over several dropdowns; keys are scanned in sorted order so the result
// does not depend on map iteration. Validation is fail-fast: the first
// violated rule is returned, naming the field, and nothing is persisted by
// this package.
func Finalize(event *models.Event, responses []*models.EventResponse, req *models.FinalizeRequest) (*models.FinalizedEvent, error) {
	keys := sortedKeys(req.CategorySelections)

	out := &models.FinalizedEvent{
		EventID:        event.ID,
		FinalizedDate:  firstWithPrefix(keys, req.CategorySelections, "category-"+models.CategoryDate+"-"),
		FinalizedPlace: firstWithPrefix(keys, req.CategorySelections, "category-"+models.CategoryPlace+"-"),
	}

	if out.FinalizedDate == "" {
		return nil, validationErrorf(nil, models.CategoryDate, "a final date must be selected")
	}
	if err := checkIsOption(event, models.CategoryDate, out.FinalizedDate); err != nil {
		return nil, err
	}
	if out.FinalizedPlace != "" {
		if err := checkIsOption(event, models.CategoryPlace, out.FinalizedPlace); err != nil {
			return nil, err
		}
	} else if len(event.EventPlaces.Values) > 0 {
		return nil, validationErrorf(nil, models.CategoryPlace, "a final place must be selected")
	}

	emails := make(map[string]string, len(responses))
	for _, r := range responses {
		emails[r.UserID] = r.UserEmail
	}

	selections := make(map[string]models.FinalizedSelection)

	// Category-backed fields (radio, checkbox).
	for _, cat := range event.VotingCategories {
		if cat.CategoryName == models.CategoryDate || cat.CategoryName == models.CategoryPlace {
			continue
		}
		fid, field := fieldForCategory(event, cat)
		if field == nil {
			continue
		}
		picks := allWithPrefix(keys, req.CategorySelections, "category-"+cat.CategoryName+"-")
		if len(picks) == 0 {
			continue
		}
		for _, p := range picks {
			if cat.Option(p) == nil {
				return nil, validationErrorf(nil, field.Title, "unknown option %q", p)
			}
		}
		sel := models.FinalizedSelection{}
		switch field.Type {
		case models.FieldRadio:
			if len(picks) > 1 {
				return nil, validationErrorf(nil, field.Title, "expected a single selection, got %d", len(picks))
			}
			sel.Value = picks[0]
		case models.FieldCheckbox:
			sel.Values = dedupe(picks)
		default:
			return nil, validationErrorf(nil, field.Title, "field type %q has no voting category", field.Type)
		}
		sel.Voters = votersFor(cat, append(append([]string(nil), sel.Values...), sel.Value), emails)
		selections[fid] = sel
	}

	// List fields: the chosen subsequence is stored verbatim.
	for _, fid := range sortedKeys(req.ListSelections) {
		field, ok := event.CustomFields[fid]
		if !ok || field.Type != models.FieldList {
			return nil, validationErrorf(nil, fid, "not a list field")
		}
		selections[fid] = models.FinalizedSelection{Values: append([]string(nil), req.ListSelections[fid]...)}
	}

	// Text fields: either the configured default or one respondent's answer.
	for _, fid := range sortedKeys(req.TextSelections) {
		field, ok := event.CustomFields[fid]
		if !ok || field.Type != models.FieldText {
			return nil, validationErrorf(nil, fid, "not a text field")
		}
		pick := req.TextSelections[fid]
		if pick == models.TextSelectionDefault {
			selections[fid] = models.FinalizedSelection{Value: field.Value}
			continue
		}
		value, found := textResponseOf(responses, fid, pick)
		if !found {
			slog.Warn("text selection respondent not found, substituting placeholder",
				"event_id", event.ID, "field_id", fid, "user_id", pick)
			value = missingTextPlaceholder
		}
		selections[fid] = models.FinalizedSelection{Value: value}
	}

	if err := validateFinalSelections(event, selections); err != nil {
		return nil, err
	}

	out.CustomFieldSelections = selections
	return out, nil
}

// validateFinalSelections applies the per-variant rules in a deterministic
// field order: required text/radio fields non-empty, required checkbox
// fields with at least one pick, list fields within maxEntries.
func validateFinalSelections(event *models.Event, selections map[string]models.FinalizedSelection) error {
	for _, fid := range sortedKeys(event.CustomFields) {
		field := event.CustomFields[fid]
		sel, ok := selections[fid]
		switch field.Type {
		case models.FieldText, models.FieldRadio:
			if field.Required && (!ok || sel.Value == "") {
				return validationErrorf(nil, field.Title, "a final value is required")
			}
		case models.FieldCheckbox:
			if field.Required && (!ok || len(sel.Values) == 0) {
				return validationErrorf(nil, field.Title, "at least one final selection is required")
			}
		case models.FieldList:
			if field.Required && (!ok || len(sel.Values) == 0) {
				return validationErrorf(nil, field.Title, "at least one entry is required")
			}
			if ok && field.MaxEntries > 0 && len(sel.Values) > field.MaxEntries {
				return validationErrorf(ErrMaxEntriesExceeded, field.Title, "%d entries exceed maxEntries %d", len(sel.Values), field.MaxEntries)
			}
		}
	}
	return nil
}

// textResponseOf finds the text answer a given user submitted for a field.
func textResponseOf(responses []*models.EventResponse, fieldID, userID string) (string, bool) {
	for _, r := range responses {
		if r.UserID != userID {
			continue
		}
		if fr, ok := r.FieldResponses[fieldID]; ok && fr.Type == models.FieldText {
			return fr.Text, true
		}
	}
	return "", false
}

// fieldForCategory resolves the custom field owning a category: by the
// stored field id when present, by title match (first in sorted id order)
// for documents written before fieldId existed.
func fieldForCategory(event *models.Event, cat *models.VotingCategory) (string, *models.CustomField) {
	if cat.FieldID != "" {
		if f, ok := event.CustomFields[cat.FieldID]; ok {
			return cat.FieldID, f
		}
		return "", nil
	}
	for _, fid := range sortedKeys(event.CustomFields) {
		if event.CustomFields[fid].Title == cat.CategoryName {
			return fid, event.CustomFields[fid]
		}
	}
	return "", nil
}

func firstWithPrefix(sortedKeys []string, m map[string]string, prefix string) string {
	for _, k := range sortedKeys {
		if strings.HasPrefix(k, prefix) {
			return m[k]
		}
	}
	return ""
}

func allWithPrefix(sortedKeys []string, m map[string]string, prefix string) []string {
	var out []string
	for _, k := range sortedKeys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, m[k])
		}
	}
	return out
}

// checkIsOption accepts any name present in the voting category or in the
// configured values; the category only materializes on the first merge, and
// finalizing a response-less event must still work.
func checkIsOption(event *models.Event, categoryName, optionName string) error {
	if cat := event.Category(categoryName); cat != nil && cat.Option(optionName) != nil {
		return nil
	}
	var configured []string
	switch categoryName {
	case models.CategoryDate:
		configured = event.EventDates.Values
	case models.CategoryPlace:
		configured = event.EventPlaces.Values
	}
	if containsString(configured, optionName) {
		return nil
	}
	return validationErrorf(nil, categoryName, "unknown option %q", optionName)
}

// votersFor collects the distinct voters of the named options, resolved to
// identities. This roster is the organizer-facing end of anonymity.
func votersFor(cat *models.VotingCategory, names []string, emails map[string]string) []models.VoterDetail {
	seen := make(map[string]bool)
	var out []models.VoterDetail
	for _, name := range names {
		if name == "" {
			continue
		}
		o := cat.Option(name)
		if o == nil {
			continue
		}
		for _, u := range o.Votes {
			if seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, models.VoterDetail{UserID: u, UserEmail: emails[u]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
