// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateEventRequest: name, description, date/place config, custom fields
  - RegisterParticipantRequest: email
  - SubmitResponseRequest: selected/suggested dates and places, raw field responses
  - FinalizeRequest: categorySelections, listSelections, textSelections

# Response Types

Types for JSON responses:

  - CreateEventResponse: event, organizerKey
  - RegisterParticipantResponse: participantId, participantToken
  - SubmitResponseResponse: response, message
  - SuggestionsResponse: suggestions, hasMore, hasMoreByField
  - ErrorResponse: error, message

# Domain Types

Internal data structures, persisted as JSON documents:

  - Event: configuration plus embedded VotingCategory state
  - VotingCategory / VotingOption: named option buckets with voter id sets
  - CustomField: organizer-defined field tagged by type
  - Participant: invitee identity with a secret token
  - EventResponse: one user's submission (unique per event and user)
  - FinalizedEvent: the write-once outcome

JSON field names on domain types are the wire contract with the UI; they use
camelCase (categoryName, optionName, votes, suggestedOptions, ...) and must
not be renamed casually.

# Constants

Custom field types:

	FieldText     = "text"
	FieldList     = "list"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"

Built-in categories:

	CategoryDate  = "date"
	CategoryPlace = "place"
*/
package models
