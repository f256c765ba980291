package models

import (
	"encoding/json"
	"time"
)

// Custom field type constants
const (
	FieldText     = "text"
	FieldList     = "list"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"
)

// Built-in voting category names
const (
	CategoryDate  = "date"
	CategoryPlace = "place"
)

// TextSelectionDefault is the sentinel a finalize request uses for a text
// field to mean "use the field's configured default value".
const TextSelectionDefault = "readonly-default"

// Request types

type CreateEventRequest struct {
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	EventDates   DateConfig              `json:"eventDates"`
	EventPlaces  PlaceConfig             `json:"eventPlaces"`
	CustomFields map[string]*CustomField `json:"customFields"`
}

type RegisterParticipantRequest struct {
	Email string `json:"email"`
}

// SubmitResponseRequest is one participant's full submission. Custom field
// payloads stay raw here; the vote package decodes each against the field's
// configured type.
type SubmitResponseRequest struct {
	SelectedDates   []string                   `json:"selectedDates"`
	SuggestedDates  []string                   `json:"suggestedDates"`
	SelectedPlaces  []string                   `json:"selectedPlaces"`
	SuggestedPlaces []string                   `json:"suggestedPlaces"`
	FieldResponses  map[string]json.RawMessage `json:"fieldResponses"`
}

// FinalizeRequest carries the organizer's raw UI selections.
// categorySelections is keyed "category-<name>-<groupIndex>" because the UI
// may split tied options across several dropdowns.
type FinalizeRequest struct {
	CategorySelections map[string]string   `json:"categorySelections"`
	ListSelections     map[string][]string `json:"listSelections"`
	TextSelections     map[string]string   `json:"textSelections"`
}

// Response types

type CreateEventResponse struct {
	Event        *Event `json:"event"`
	OrganizerKey string `json:"organizerKey"`
}

type RegisterParticipantResponse struct {
	ParticipantID    string `json:"participantId"`
	ParticipantToken string `json:"participantToken"`
}

type SubmitResponseResponse struct {
	Response *EventResponse `json:"response"`
	Message  string         `json:"message"`
}

type SuggestionsResponse struct {
	Suggestions    map[string][]string `json:"suggestions"`
	HasMore        bool                `json:"hasMore"`
	HasMoreByField map[string]bool     `json:"hasMoreByField"`
}

// Domain types

// DateConfig configures the candidate dates of an event. Values are
// RFC 3339 instants.
type DateConfig struct {
	Values       []string `json:"values"`
	MaxDates     int      `json:"maxDates"`
	AllowUserAdd bool     `json:"allowUserAdd"`
	MaxVotes     int      `json:"maxVotes"`
}

// PlaceConfig configures the candidate places of an event.
type PlaceConfig struct {
	Values       []string `json:"values"`
	MaxPlaces    int      `json:"maxPlaces"`
	AllowUserAdd bool     `json:"allowUserAdd"`
	MaxVotes     int      `json:"maxVotes"`
}

// FieldOption is one configured choice of a radio or checkbox field.
type FieldOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CustomField is an organizer-defined field, tagged by Type. The non-shared
// attributes apply per type: Value (text), Values/MaxEntries/AllowUserAdd
// (list), Options/MaxOptions/AllowUserAddOptions (radio, checkbox).
// Zero caps mean unlimited.
type CustomField struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Required bool   `json:"required"`
	Readonly bool   `json:"readonly"`
	Optional bool   `json:"optional,omitempty"`

	Value string `json:"value,omitempty"`

	Values       []string `json:"values,omitempty"`
	MaxEntries   int      `json:"maxEntries,omitempty"`
	AllowUserAdd bool     `json:"allowUserAdd,omitempty"`

	Options             []FieldOption `json:"options,omitempty"`
	MaxOptions          int           `json:"maxOptions,omitempty"`
	AllowUserAddOptions bool          `json:"allowUserAddOptions,omitempty"`
}

// VotingOption is one candidate value with the ids of the users that
// currently select it.
type VotingOption struct {
	OptionName string   `json:"optionName"`
	Votes      []string `json:"votes"`
}

// VotingCategory is a named bucket of mutually comparable options.
// FieldID is set when the category belongs to a custom field; it is the
// stable join key back to the field (CategoryName is only for display).
type VotingCategory struct {
	CategoryName string          `json:"categoryName"`
	FieldID      string          `json:"fieldId,omitempty"`
	Options      []*VotingOption `json:"options"`
}

// Event owns the voting configuration and the embedded category state.
type Event struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description,omitempty"`
	EventDates       DateConfig              `json:"eventDates"`
	EventPlaces      PlaceConfig             `json:"eventPlaces"`
	CustomFields     map[string]*CustomField `json:"customFields,omitempty"`
	VotingCategories []*VotingCategory       `json:"votingCategories"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// Participant identifies one invitee of an event. The token is a secret
// presented on later requests and never serialized.
type Participant struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Email     string    `json:"email"`
	Token     string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"createdAt"`
}

// FieldResponse is the persisted, normalized payload for one custom field
// inside an EventResponse. The per-type members are set according to Type.
type FieldResponse struct {
	Type             string          `json:"type"`
	Text             string          `json:"text,omitempty"`
	Values           []string        `json:"values,omitempty"`
	Selected         string          `json:"selected,omitempty"`
	Selections       map[string]bool `json:"selections,omitempty"`
	UserAddedOptions []string        `json:"userAddedOptions,omitempty"`
}

// EventResponse is one user's submission for one event. The suggested*
// members hold only names this user personally introduced, never options
// that already existed; the suggestion aggregator depends on that.
type EventResponse struct {
	ID               string                   `json:"id"`
	EventID          string                   `json:"eventId"`
	UserID           string                   `json:"userId"`
	UserEmail        string                   `json:"userEmail"`
	FieldResponses   map[string]FieldResponse `json:"fieldResponses,omitempty"`
	SuggestedDates   []string                 `json:"suggestedDates,omitempty"`
	SuggestedPlaces  []string                 `json:"suggestedPlaces,omitempty"`
	SuggestedOptions map[string][]string      `json:"suggestedOptions,omitempty"`
	SubmittedAt      time.Time                `json:"submittedAt"`
}

// VoterDetail resolves a voter id to an identity. Only organizer-facing
// views carry it.
type VoterDetail struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
}

// FinalizedSelection is the resolved outcome for one custom field.
type FinalizedSelection struct {
	Value  string        `json:"value,omitempty"`
	Values []string      `json:"values,omitempty"`
	Voters []VoterDetail `json:"voters,omitempty"`
}

// FinalizedEvent is the write-once outcome of an event.
type FinalizedEvent struct {
	EventID               string                        `json:"eventId"`
	FinalizedDate         string                        `json:"finalizedDate"`
	FinalizedPlace        string                        `json:"finalizedPlace"`
	CustomFieldSelections map[string]FinalizedSelection `json:"customFieldSelections,omitempty"`
	FinalizedBy           string                        `json:"finalizedBy"`
	FinalizedAt           time.Time                     `json:"finalizedAt"`
}

// Organizer aggregate types

type ChartOption struct {
	OptionName   string        `json:"optionName"`
	VoteCount    int           `json:"voteCount"`
	VoterDetails []VoterDetail `json:"voterDetails"`
}

type ChartCategory struct {
	CategoryName string        `json:"categoryName"`
	FieldID      string        `json:"fieldId,omitempty"`
	Options      []ChartOption `json:"options"`
}

type ListFieldEntry struct {
	UserID    string   `json:"userId"`
	UserEmail string   `json:"userEmail"`
	Values    []string `json:"values"`
}

type ListFieldData struct {
	FieldID   string           `json:"fieldId"`
	Title     string           `json:"title"`
	Responses []ListFieldEntry `json:"responses"`
}

type TextFieldEntry struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Value     string `json:"value"`
}

type TextFieldData struct {
	FieldID   string           `json:"fieldId"`
	Title     string           `json:"title"`
	Responses []TextFieldEntry `json:"responses"`
}

// EventWithAggregates is the organizer view: full vote membership resolved
// to identities. This is the one surface where anonymity ends.
type EventWithAggregates struct {
	Event          *Event          `json:"event"`
	ChartsData     []ChartCategory `json:"chartsData"`
	ListFieldsData []ListFieldData `json:"listFieldsData"`
	TextFieldsData []TextFieldData `json:"textFieldsData"`
}

// Public view types (votes reduced to counts)

type PublicOption struct {
	OptionName string `json:"optionName"`
	VoteCount  int    `json:"voteCount"`
}

type PublicCategory struct {
	CategoryName string         `json:"categoryName"`
	FieldID      string         `json:"fieldId,omitempty"`
	Options      []PublicOption `json:"options"`
}

// PublicEvent is the participant-facing event view.
type PublicEvent struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description,omitempty"`
	EventDates       DateConfig              `json:"eventDates"`
	EventPlaces      PlaceConfig             `json:"eventPlaces"`
	CustomFields     map[string]*CustomField `json:"customFields,omitempty"`
	VotingCategories []PublicCategory        `json:"votingCategories"`
	Finalized        *FinalizedEvent         `json:"finalized,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
