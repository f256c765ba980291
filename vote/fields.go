// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/slotpick/slotpick/models"
)

// UserOptionID derives the deterministic id for a user-added checkbox
// option. Two submissions of the same label map to the same id.
func UserOptionID(label string) string {
	return "user_" + slugify(label)
}

func slugify(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// radioPayload is the object form of a radio submission. The bare-label
// string form is handled separately.
type radioPayload struct {
	Value            string   `json:"value"`
	UserAddedOptions []string `json:"userAddedOptions"`
}

type checkboxPayload struct {
	Selections       map[string]bool `json:"selections"`
	UserAddedOptions []string        `json:"userAddedOptions"`
}

// ParseFieldResponse decodes a raw submission value against the field's
// configured type and checks everything that does not need category state:
// structure, readonly byte-equality for text, the immutable original prefix
// and maxEntries cap for lists. Category-level rules (user-added option
// caps, duplicates) belong to the merge engine.
func ParseFieldResponse(field *models.CustomField, raw json.RawMessage) (models.FieldResponse, error) {
	resp := models.FieldResponse{Type: field.Type}

	switch field.Type {
	case models.FieldText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return resp, validationErrorf(nil, field.Title, "text response must be a string")
		}
		if field.Readonly && s != field.Value {
			return resp, validationErrorf(ErrReadonlyViolation, field.Title, "read-only field value must match %q", field.Value)
		}
		resp.Text = s

	case models.FieldList:
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			return resp, validationErrorf(nil, field.Title, "list response must be an array of strings")
		}
		// The configured values form an immutable prefix; participants may
		// only append, edit, or drop entries after it.
		if len(values) < len(field.Values) {
			return resp, validationErrorf(ErrReadonlyViolation, field.Title, "original entries may not be removed")
		}
		for i, v := range field.Values {
			if values[i] != v {
				return resp, validationErrorf(ErrReadonlyViolation, field.Title, "original entry %d may not be changed", i)
			}
		}
		if field.Readonly && len(values) != len(field.Values) {
			return resp, validationErrorf(ErrReadonlyViolation, field.Title, "read-only list may not be extended")
		}
		if field.MaxEntries > 0 && len(values) > field.MaxEntries {
			return resp, validationErrorf(ErrMaxEntriesExceeded, field.Title, "at most %d entries allowed, got %d", field.MaxEntries, len(values))
		}
		resp.Values = values

	case models.FieldRadio:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			resp.Selected = s
			break
		}
		var p radioPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return resp, validationErrorf(nil, field.Title, "radio response must be a label or {value, userAddedOptions}")
		}
		resp.Selected = p.Value
		resp.UserAddedOptions = p.UserAddedOptions

	case models.FieldCheckbox:
		var p checkboxPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return resp, validationErrorf(nil, field.Title, "checkbox response must be {selections, userAddedOptions}")
		}
		resp.Selections = p.Selections
		resp.UserAddedOptions = p.UserAddedOptions

	default:
		return resp, validationErrorf(nil, field.Title, "unknown field type %q", field.Type)
	}

	return resp, nil
}

// IsEmptyResponse reports whether a parsed response represents "nothing
// submitted"; required-field checks fire on empty responses.
func IsEmptyResponse(field *models.CustomField, resp models.FieldResponse) bool {
	switch field.Type {
	case models.FieldText:
		return resp.Text == ""
	case models.FieldList:
		return len(resp.Values) == 0
	case models.FieldRadio:
		return resp.Selected == ""
	case models.FieldCheckbox:
		for _, on := range resp.Selections {
			if on {
				return false
			}
		}
		return true
	}
	return true
}

// ValidateEventConfig rejects malformed field and candidate configuration at
// event creation time, before anything is persisted.
func ValidateEventConfig(req *models.CreateEventRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return validationErrorf(nil, "", "name is required")
	}
	for _, d := range req.EventDates.Values {
		if _, err := time.Parse(time.RFC3339, d); err != nil {
			return validationErrorf(nil, "eventDates", "candidate date %q is not an RFC 3339 instant", d)
		}
	}
	if max := req.EventDates.MaxDates; max > 0 && len(req.EventDates.Values) > max {
		return validationErrorf(nil, "eventDates", "%d candidate dates exceed maxDates %d", len(req.EventDates.Values), max)
	}
	if max := req.EventPlaces.MaxPlaces; max > 0 && len(req.EventPlaces.Values) > max {
		return validationErrorf(nil, "eventPlaces", "%d candidate places exceed maxPlaces %d", len(req.EventPlaces.Values), max)
	}

	for id, f := range req.CustomFields {
		if f == nil {
			return validationErrorf(nil, id, "field config missing")
		}
		if f.ID != "" && f.ID != id {
			return validationErrorf(nil, id, "field id %q does not match its key", f.ID)
		}
		if strings.TrimSpace(f.Title) == "" {
			return validationErrorf(nil, id, "field title is required")
		}
		switch f.Type {
		case models.FieldText:
			if f.Readonly && f.Value == "" {
				return validationErrorf(nil, f.Title, "read-only text field needs a configured value")
			}
		case models.FieldList:
			if f.MaxEntries > 0 && len(f.Values) > f.MaxEntries {
				return validationErrorf(nil, f.Title, "%d configured entries exceed maxEntries %d", len(f.Values), f.MaxEntries)
			}
		case models.FieldRadio, models.FieldCheckbox:
			if f.MaxOptions > 0 && len(f.Options) > f.MaxOptions {
				return validationErrorf(nil, f.Title, "%d configured options exceed maxOptions %d", len(f.Options), f.MaxOptions)
			}
			seen := make(map[string]bool, len(f.Options))
			for _, opt := range f.Options {
				if opt.Label == "" {
					return validationErrorf(nil, f.Title, "option labels may not be empty")
				}
				lower := strings.ToLower(opt.Label)
				if seen[lower] {
					return validationErrorf(ErrDuplicateOption, f.Title, "option %q configured twice", opt.Label)
				}
				seen[lower] = true
			}
		default:
			return validationErrorf(nil, f.Title, "unknown field type %q", f.Type)
		}
	}
	return nil
}
