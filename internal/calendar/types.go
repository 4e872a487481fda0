// Package calendar implements the routing workflow: classify a free-text
// calendar request, dispatch to a type-specific extraction handler, and build
// a user-facing confirmation.
package calendar

import "github.com/pcastellanos/llm-workflows/internal/llm"

type RequestType string

const (
	RequestNewEvent    RequestType = "new_event"
	RequestModifyEvent RequestType = "modify_event"
	RequestOther       RequestType = "other"
)

// Classification is the routing decision for one request. Produced once,
// consumed by the dispatch, never stored.
type Classification struct {
	RequestType RequestType `json:"request_type"`
	Confidence  float64     `json:"confidence_score"`
	Description string      `json:"description"`
}

// NewEventDetails holds the extracted fields for creating an event.
type NewEventDetails struct {
	Name            string   `json:"name"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	Participants    []string `json:"participants"`
}

// Change is one field/new-value pair on an existing event.
type Change struct {
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
}

// ModifyEventDetails holds the extracted fields for changing an event.
type ModifyEventDetails struct {
	EventIdentifier      string   `json:"event_identifier"`
	Changes              []Change `json:"changes"`
	ParticipantsToAdd    []string `json:"participants_to_add"`
	ParticipantsToRemove []string `json:"participants_to_remove"`
}

// Response is the terminal output of a handled request.
type Response struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	CalendarLink string `json:"calendar_link,omitempty"`
}

// Result makes the terminal states of the dispatch explicit. Handled is false
// for the "other" category; callers must deal with that case themselves.
type Result struct {
	Classification Classification
	Handled        bool
	Response       Response
}

func classificationSchema() map[string]any {
	return llm.ObjectSchema(map[string]any{
		"request_type": map[string]any{
			"type":        "string",
			"enum":        []string{string(RequestNewEvent), string(RequestModifyEvent), string(RequestOther)},
			"description": "Type of calendar request being made",
		},
		"confidence_score": map[string]any{
			"type":        "number",
			"description": "Confidence score between 0 and 1",
		},
		"description": map[string]any{
			"type":        "string",
			"description": "Cleaned description of the request",
		},
	})
}

func newEventSchema() map[string]any {
	return llm.ObjectSchema(map[string]any{
		"name": map[string]any{
			"type":        "string",
			"description": "Name of the event",
		},
		"date": map[string]any{
			"type":        "string",
			"description": "Date and time of the event (ISO 8601)",
		},
		"duration_minutes": map[string]any{
			"type":        "integer",
			"description": "Duration in minutes",
		},
		"participants": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "List of participants",
		},
	})
}

func modifyEventSchema() map[string]any {
	return llm.ObjectSchema(map[string]any{
		"event_identifier": map[string]any{
			"type":        "string",
			"description": "Description to identify the existing event",
		},
		"changes": map[string]any{
			"type": "array",
			"items": llm.ObjectSchema(map[string]any{
				"field":     map[string]any{"type": "string", "description": "Field to change"},
				"new_value": map[string]any{"type": "string", "description": "New value for the field"},
			}),
			"description": "List of changes to make",
		},
		"participants_to_add": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "New participants to add",
		},
		"participants_to_remove": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Participants to remove",
		},
	})
}
