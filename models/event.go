package models

// Category returns the voting category with the given name, or nil.
// Names match case-sensitively.
func (e *Event) Category(name string) *VotingCategory {
	for _, c := range e.VotingCategories {
		if c.CategoryName == name {
			return c
		}
	}
	return nil
}

// CategoryForField returns the voting category owned by the given custom
// field id, or nil.
func (e *Event) CategoryForField(fieldID string) *VotingCategory {
	for _, c := range e.VotingCategories {
		if c.FieldID != "" && c.FieldID == fieldID {
			return c
		}
	}
	return nil
}

// Clone deep-copies the event so callers can stage mutations and throw them
// away on validation failure.
func (e *Event) Clone() *Event {
	out := *e

	out.EventDates.Values = append([]string(nil), e.EventDates.Values...)
	out.EventPlaces.Values = append([]string(nil), e.EventPlaces.Values...)

	if e.CustomFields != nil {
		out.CustomFields = make(map[string]*CustomField, len(e.CustomFields))
		for id, f := range e.CustomFields {
			cf := *f
			cf.Values = append([]string(nil), f.Values...)
			cf.Options = append([]FieldOption(nil), f.Options...)
			out.CustomFields[id] = &cf
		}
	}

	out.VotingCategories = make([]*VotingCategory, len(e.VotingCategories))
	for i, c := range e.VotingCategories {
		cc := &VotingCategory{
			CategoryName: c.CategoryName,
			FieldID:      c.FieldID,
			Options:      make([]*VotingOption, len(c.Options)),
		}
		for j, o := range c.Options {
			cc.Options[j] = &VotingOption{
				OptionName: o.OptionName,
				Votes:      append([]string(nil), o.Votes...),
			}
		}
		out.VotingCategories[i] = cc
	}

	return &out
}

// Option returns the option with the given name, or nil. Names match
// case-sensitively.
func (c *VotingCategory) Option(name string) *VotingOption {
	for _, o := range c.Options {
		if o.OptionName == name {
			return o
		}
	}
	return nil
}

// HasVote reports whether the user currently selects this option.
func (o *VotingOption) HasVote(userID string) bool {
	for _, v := range o.Votes {
		if v == userID {
			return true
		}
	}
	return false
}

// AddVote adds the user to the option's vote set. Adding twice is a no-op.
func (o *VotingOption) AddVote(userID string) {
	if !o.HasVote(userID) {
		o.Votes = append(o.Votes, userID)
	}
}

// RemoveVote removes the user from the option's vote set if present.
func (o *VotingOption) RemoveVote(userID string) {
	for i, v := range o.Votes {
		if v == userID {
			o.Votes = append(o.Votes[:i], o.Votes[i+1:]...)
			return
		}
	}
}
