// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"sort"
	"strings"
	"time"

	"github.com/slotpick/slotpick/models"
)

// Merge applies one user's submission to the event's voting state. It works
// on a deep copy: every category and field is validated before anything is
// touched, and an error leaves the input event untouched, so the caller can
// persist the returned copy atomically or drop it.
//
// prior is the user's previous EventResponse, or nil on first submission;
// it keeps suggestion attribution stable across resubmits (last-write-wins
// per user).
func Merge(event *models.Event, prior *models.EventResponse, userID, userEmail string, req *models.SubmitResponseRequest) (*models.Event, *models.EventResponse, error) {
	staged := event.Clone()

	resp := &models.EventResponse{
		EventID:   event.ID,
		UserID:    userID,
		UserEmail: userEmail,
	}

	// Reject responses for fields the event does not define.
	for _, fid := range sortedKeys(req.FieldResponses) {
		if _, ok := staged.CustomFields[fid]; !ok {
			return nil, nil, validationErrorf(nil, fid, "unknown field")
		}
	}

	var priorDates, priorPlaces []string
	priorOptions := map[string][]string{}
	if prior != nil {
		priorDates = prior.SuggestedDates
		priorPlaces = prior.SuggestedPlaces
		priorOptions = prior.SuggestedOptions
	}

	if err := mergeDates(staged, resp, userID, priorDates, req); err != nil {
		return nil, nil, err
	}
	if err := mergePlaces(staged, resp, userID, priorPlaces, req); err != nil {
		return nil, nil, err
	}

	for _, fid := range sortedKeys(staged.CustomFields) {
		if err := mergeField(staged, resp, userID, priorOptions[fid], fid, req); err != nil {
			return nil, nil, err
		}
	}

	return staged, resp, nil
}

func mergeDates(staged *models.Event, resp *models.EventResponse, userID string, priorSuggested []string, req *models.SubmitResponseRequest) error {
	cat := EnsureCategory(staged, models.CategoryDate, "")
	for _, v := range staged.EventDates.Values {
		EnsureOption(cat, v)
	}

	suggested := dedupe(req.SuggestedDates)
	var created []string
	for _, s := range suggested {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return validationErrorf(nil, models.CategoryDate, "suggested date %q is not an RFC 3339 instant", s)
		}
		if cat.Option(s) != nil {
			continue
		}
		if !staged.EventDates.AllowUserAdd {
			return validationErrorf(ErrSuggestionNotAllowed, models.CategoryDate, "event does not accept new dates")
		}
		created = append(created, s)
	}
	if max := staged.EventDates.MaxDates; max > 0 && len(cat.Options)+len(created) > max {
		return validationErrorf(ErrMaxEntriesExceeded, models.CategoryDate, "at most %d dates allowed", max)
	}

	selected := dedupe(req.SelectedDates)
	if max := staged.EventDates.MaxVotes; max > 0 && len(selected) > max {
		return validationErrorf(ErrTooManyVotes, models.CategoryDate, "at most %d date votes allowed, got %d", max, len(selected))
	}

	// Validation passed; mutate the staged copy.
	for _, s := range created {
		EnsureOption(cat, s)
	}
	SetUserMultiSelection(cat, userID, intersectOptions(cat, selected))

	resp.SuggestedDates = attributedSuggestions(created, priorSuggested, suggested)
	return nil
}

func mergePlaces(staged *models.Event, resp *models.EventResponse, userID string, priorSuggested []string, req *models.SubmitResponseRequest) error {
	cat := EnsureCategory(staged, models.CategoryPlace, "")
	for _, v := range staged.EventPlaces.Values {
		EnsureOption(cat, v)
	}

	suggested := dedupe(req.SuggestedPlaces)
	var created []string
	for _, s := range suggested {
		if strings.TrimSpace(s) == "" {
			return validationErrorf(nil, models.CategoryPlace, "suggested place may not be empty")
		}
		if cat.Option(s) != nil {
			continue
		}
		if !staged.EventPlaces.AllowUserAdd {
			return validationErrorf(ErrSuggestionNotAllowed, models.CategoryPlace, "event does not accept new places")
		}
		created = append(created, s)
	}
	if max := staged.EventPlaces.MaxPlaces; max > 0 && len(cat.Options)+len(created) > max {
		return validationErrorf(ErrMaxEntriesExceeded, models.CategoryPlace, "at most %d places allowed", max)
	}

	selected := dedupe(req.SelectedPlaces)
	if max := staged.EventPlaces.MaxVotes; max > 0 && len(selected) > max {
		return validationErrorf(ErrTooManyVotes, models.CategoryPlace, "at most %d place votes allowed, got %d", max, len(selected))
	}

	for _, s := range created {
		EnsureOption(cat, s)
	}
	SetUserMultiSelection(cat, userID, intersectOptions(cat, selected))

	resp.SuggestedPlaces = attributedSuggestions(created, priorSuggested, suggested)
	return nil
}

func mergeField(staged *models.Event, resp *models.EventResponse, userID string, priorSuggested []string, fid string, req *models.SubmitResponseRequest) error {
	field := staged.CustomFields[fid]

	raw, ok := req.FieldResponses[fid]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		if field.Required {
			return validationErrorf(nil, field.Title, "response is required")
		}
		return nil
	}

	parsed, err := ParseFieldResponse(field, raw)
	if err != nil {
		return err
	}
	if field.Required && IsEmptyResponse(field, parsed) {
		return validationErrorf(nil, field.Title, "response is required")
	}

	switch field.Type {
	case models.FieldText:
		// Stored verbatim; text fields never touch a voting category.

	case models.FieldList:
		userAdded := parsed.Values[len(field.Values):]
		if len(userAdded) > 0 && !field.AllowUserAdd {
			return validationErrorf(ErrSuggestionNotAllowed, field.Title, "field does not accept new entries")
		}
		resp.SuggestedOptions = setSuggested(resp.SuggestedOptions, fid,
			attributedSuggestions(userAdded, priorSuggested, userAdded))

	case models.FieldRadio, models.FieldCheckbox:
		if err := mergeChoiceField(staged, resp, userID, priorSuggested, fid, field, parsed); err != nil {
			return err
		}
	}

	if resp.FieldResponses == nil {
		resp.FieldResponses = make(map[string]models.FieldResponse)
	}
	resp.FieldResponses[fid] = parsed
	return nil
}

// mergeChoiceField handles the category interaction shared by radio and
// checkbox fields: idempotent seeding of configured options, user-added
// option acceptance, and vote membership updates.
func mergeChoiceField(staged *models.Event, resp *models.EventResponse, userID string, priorSuggested []string, fid string, field *models.CustomField, parsed models.FieldResponse) error {
	cat := EnsureCategory(staged, field.Title, fid)
	for _, opt := range field.Options {
		EnsureOption(cat, opt.Label)
	}

	var created []string
	for _, label := range dedupe(parsed.UserAddedOptions) {
		if strings.TrimSpace(label) == "" {
			return validationErrorf(nil, field.Title, "added option label may not be empty")
		}
		// An exact match is the same option resubmitted, not a duplicate; a
		// case-insensitive near-match is rejected, never silently merged.
		if cat.Option(label) != nil || containsString(created, label) {
			continue
		}
		if clashesCaseInsensitive(cat, created, label) {
			return validationErrorf(ErrDuplicateOption, field.Title, "option %q already exists with different casing", label)
		}
		if !field.AllowUserAddOptions {
			return validationErrorf(ErrSuggestionNotAllowed, field.Title, "field does not accept new options")
		}
		created = append(created, label)
	}
	if max := field.MaxOptions; max > 0 && len(cat.Options)+len(created) > max {
		return validationErrorf(nil, field.Title, "at most %d options allowed", max)
	}

	var selectedLabels []string
	if field.Type == models.FieldCheckbox {
		labels, err := resolveCheckboxSelections(field, cat, parsed)
		if err != nil {
			return err
		}
		selectedLabels = labels
	} else if parsed.Selected != "" {
		if cat.Option(parsed.Selected) == nil && !containsString(created, parsed.Selected) {
			return validationErrorf(nil, field.Title, "unknown option %q", parsed.Selected)
		}
		selectedLabels = []string{parsed.Selected}
	}

	for _, label := range created {
		EnsureOption(cat, label)
	}
	if field.Type == models.FieldRadio {
		if len(selectedLabels) == 1 {
			SetUserSingleSelection(cat, userID, selectedLabels[0])
		} else {
			for _, o := range cat.Options {
				o.RemoveVote(userID)
			}
		}
		if err := CheckSingleSelection(cat); err != nil {
			return err
		}
	} else {
		SetUserMultiSelection(cat, userID, selectedLabels)
	}

	resp.SuggestedOptions = setSuggested(resp.SuggestedOptions, fid,
		attributedSuggestions(created, priorSuggested, parsed.UserAddedOptions))
	return nil
}

// resolveCheckboxSelections maps submitted option ids (configured ids or
// deterministic user_<slug> ids) to option labels.
func resolveCheckboxSelections(field *models.CustomField, cat *models.VotingCategory, parsed models.FieldResponse) ([]string, error) {
	configured := make(map[string]string, len(field.Options))
	configuredLabels := make(map[string]bool, len(field.Options))
	for _, opt := range field.Options {
		configured[opt.ID] = opt.Label
		configuredLabels[opt.Label] = true
	}

	var labels []string
	for _, id := range sortedKeys(parsed.Selections) {
		if !parsed.Selections[id] {
			continue
		}
		if label, ok := configured[id]; ok {
			labels = append(labels, label)
			continue
		}
		resolved := ""
		for _, label := range parsed.UserAddedOptions {
			if UserOptionID(label) == id {
				resolved = label
				break
			}
		}
		if resolved == "" {
			// Another participant's earlier addition, present in the
			// category but not in this payload.
			for _, o := range cat.Options {
				if !configuredLabels[o.OptionName] && UserOptionID(o.OptionName) == id {
					resolved = o.OptionName
					break
				}
			}
		}
		if resolved == "" {
			return nil, validationErrorf(nil, field.Title, "unknown option id %q", id)
		}
		labels = append(labels, resolved)
	}
	return dedupe(labels), nil
}

// attributedSuggestions computes the names this user personally introduced:
// options newly created by this merge, plus names the user introduced on an
// earlier submission and resubmitted now. Pre-existing options introduced by
// others are never attributed.
func attributedSuggestions(created, priorSuggested, submitted []string) []string {
	out := append([]string(nil), created...)
	sub := make(map[string]bool, len(submitted))
	for _, s := range submitted {
		sub[s] = true
	}
	for _, p := range priorSuggested {
		if sub[p] && !containsString(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func setSuggested(m map[string][]string, key string, names []string) map[string][]string {
	if len(names) == 0 {
		return m
	}
	if m == nil {
		m = make(map[string][]string)
	}
	m[key] = names
	return m
}

func intersectOptions(c *models.VotingCategory, names []string) []string {
	var out []string
	for _, n := range names {
		if c.Option(n) != nil {
			out = append(out, n)
		}
	}
	return out
}

func clashesCaseInsensitive(c *models.VotingCategory, pending []string, label string) bool {
	lower := strings.ToLower(label)
	for _, o := range c.Options {
		if o.OptionName != label && strings.ToLower(o.OptionName) == lower {
			return true
		}
	}
	for _, p := range pending {
		if p != label && strings.ToLower(p) == lower {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	var out []string
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
