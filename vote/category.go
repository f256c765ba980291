// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"fmt"

	"github.com/slotpick/slotpick/models"
)

// EnsureCategory returns the event's category with the given identity,
// creating an empty one if needed. For custom-field categories fieldID is
// the join key; name matching is the fallback for documents written before
// fieldId existed.
func EnsureCategory(e *models.Event, name, fieldID string) *models.VotingCategory {
	if fieldID != "" {
		if c := e.CategoryForField(fieldID); c != nil {
			return c
		}
	}
	if c := e.Category(name); c != nil {
		if fieldID != "" && c.FieldID == "" {
			c.FieldID = fieldID
		}
		return c
	}
	c := &models.VotingCategory{CategoryName: name, FieldID: fieldID}
	e.VotingCategories = append(e.VotingCategories, c)
	return c
}

// EnsureOption returns the option with the given name, appending a new one
// with an empty vote set if none exists. Insertion order is preserved.
func EnsureOption(c *models.VotingCategory, name string) *models.VotingOption {
	if o := c.Option(name); o != nil {
		return o
	}
	o := &models.VotingOption{OptionName: name, Votes: []string{}}
	c.Options = append(c.Options, o)
	return o
}

// SetUserSingleSelection clears the user's membership from every option of
// the category, then adds them to the (ensured) named option. Radio, date
// and place single-vote semantics.
func SetUserSingleSelection(c *models.VotingCategory, userID, optionName string) {
	for _, o := range c.Options {
		o.RemoveVote(userID)
	}
	EnsureOption(c, optionName).AddVote(userID)
}

// SetUserMultiSelection reconciles the user's membership to exactly the
// given option names: removed everywhere else, ensured and added for each
// name. Checkbox and bounded date/place semantics.
func SetUserMultiSelection(c *models.VotingCategory, userID string, optionNames []string) {
	keep := make(map[string]bool, len(optionNames))
	for _, n := range optionNames {
		keep[n] = true
	}
	for _, o := range c.Options {
		if !keep[o.OptionName] {
			o.RemoveVote(userID)
		}
	}
	for _, n := range optionNames {
		EnsureOption(c, n).AddVote(userID)
	}
}

// CheckSingleSelection verifies the single-select invariant: no user id
// appears in more than one option of the category.
func CheckSingleSelection(c *models.VotingCategory) error {
	seen := make(map[string]string)
	for _, o := range c.Options {
		for _, u := range o.Votes {
			if prev, ok := seen[u]; ok {
				return fmt.Errorf("category %q: user %s votes both %q and %q", c.CategoryName, u, prev, o.OptionName)
			}
			seen[u] = o.OptionName
		}
	}
	return nil
}
