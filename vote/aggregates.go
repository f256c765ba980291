// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"github.com/slotpick/slotpick/models"
)

// Aggregates builds the organizer view of an event: per-option vote counts
// with resolved voter identities, plus every list and text field response.
// This is the explicit boundary where anonymity ends, and it is served to
// the event owner only.
func Aggregates(event *models.Event, responses []*models.EventResponse) *models.EventWithAggregates {
	emails := make(map[string]string, len(responses))
	for _, r := range responses {
		emails[r.UserID] = r.UserEmail
	}

	charts := make([]models.ChartCategory, 0, len(event.VotingCategories))
	for _, cat := range event.VotingCategories {
		cc := models.ChartCategory{
			CategoryName: cat.CategoryName,
			FieldID:      cat.FieldID,
			Options:      make([]models.ChartOption, 0, len(cat.Options)),
		}
		for _, o := range cat.Options {
			co := models.ChartOption{
				OptionName:   o.OptionName,
				VoteCount:    len(o.Votes),
				VoterDetails: make([]models.VoterDetail, 0, len(o.Votes)),
			}
			for _, u := range o.Votes {
				co.VoterDetails = append(co.VoterDetails, models.VoterDetail{UserID: u, UserEmail: emails[u]})
			}
			cc.Options = append(cc.Options, co)
		}
		charts = append(charts, cc)
	}

	var listData []models.ListFieldData
	var textData []models.TextFieldData
	for _, fid := range sortedKeys(event.CustomFields) {
		field := event.CustomFields[fid]
		switch field.Type {
		case models.FieldList:
			data := models.ListFieldData{FieldID: fid, Title: field.Title}
			for _, r := range responses {
				if fr, ok := r.FieldResponses[fid]; ok && len(fr.Values) > 0 {
					data.Responses = append(data.Responses, models.ListFieldEntry{
						UserID:    r.UserID,
						UserEmail: r.UserEmail,
						Values:    fr.Values,
					})
				}
			}
			listData = append(listData, data)
		case models.FieldText:
			data := models.TextFieldData{FieldID: fid, Title: field.Title}
			for _, r := range responses {
				if fr, ok := r.FieldResponses[fid]; ok && fr.Text != "" {
					data.Responses = append(data.Responses, models.TextFieldEntry{
						UserID:    r.UserID,
						UserEmail: r.UserEmail,
						Value:     fr.Text,
					})
				}
			}
			textData = append(textData, data)
		}
	}

	return &models.EventWithAggregates{
		Event:          event,
		ChartsData:     charts,
		ListFieldsData: listData,
		TextFieldsData: textData,
	}
}

// PublicView strips voter identity from an event: options carry counts
// only. Participants see what is winning, never who voted for what.
func PublicView(event *models.Event, finalized *models.FinalizedEvent) *models.PublicEvent {
	cats := make([]models.PublicCategory, 0, len(event.VotingCategories))
	for _, cat := range event.VotingCategories {
		pc := models.PublicCategory{
			CategoryName: cat.CategoryName,
			FieldID:      cat.FieldID,
			Options:      make([]models.PublicOption, 0, len(cat.Options)),
		}
		for _, o := range cat.Options {
			pc.Options = append(pc.Options, models.PublicOption{
				OptionName: o.OptionName,
				VoteCount:  len(o.Votes),
			})
		}
		cats = append(cats, pc)
	}

	var pub *models.FinalizedEvent
	if finalized != nil {
		// Voter rosters stay organizer-only.
		cp := *finalized
		if len(cp.CustomFieldSelections) > 0 {
			cp.CustomFieldSelections = make(map[string]models.FinalizedSelection, len(finalized.CustomFieldSelections))
			for fid, sel := range finalized.CustomFieldSelections {
				sel.Voters = nil
				cp.CustomFieldSelections[fid] = sel
			}
		}
		pub = &cp
	}

	return &models.PublicEvent{
		ID:               event.ID,
		Name:             event.Name,
		Description:      event.Description,
		EventDates:       event.EventDates,
		EventPlaces:      event.EventPlaces,
		CustomFields:     event.CustomFields,
		VotingCategories: cats,
		Finalized:        pub,
		CreatedAt:        event.CreatedAt,
	}
}
