package calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
	"github.com/pcastellanos/llm-workflows/internal/metrics"
)

const (
	classifyPrompt = "Determine if this is a request to create a new calendar event or modify an existing one."
	newEventPrompt = "Extract details for creating a new calendar event."
	modifyPrompt   = "Extract details for modifying an existing calendar event."
)

// Router classifies calendar requests and dispatches to the extraction
// handler for the detected type.
type Router struct {
	llm   llm.Client
	model string
}

func NewRouter(c llm.Client, model string) *Router {
	return &Router{llm: c, model: model}
}

// Route runs the full workflow: one classification call, then one extraction
// call for handled categories. The "other" category comes back with
// Handled=false and no Response.
func (r *Router) Route(ctx context.Context, input string) (Result, error) {
	id := uuid.NewString()
	logx.Info("Router", "routing request id=%s message=%q", id, input)

	timer := logx.Start(id, "Router", "ClassifyRequest")
	var cls Classification
	err := llm.CompleteStructured(ctx, r.llm, llm.StructuredCall{
		Model:      r.model,
		System:     classifyPrompt,
		User:       input,
		SchemaName: "calendar_request_type",
		Schema:     classificationSchema(),
	}, &cls)
	timer.End()
	if err != nil {
		return Result{}, fmt.Errorf("classifying request: %w", err)
	}

	metrics.RecordRoutingRequest(string(cls.RequestType))
	logx.Info("Router", "request %s classified as %s (confidence %.2f)", id, cls.RequestType, cls.Confidence)

	switch cls.RequestType {
	case RequestNewEvent:
		resp, err := r.handleNewEvent(ctx, id, cls.Description)
		if err != nil {
			return Result{}, err
		}
		return Result{Classification: cls, Handled: true, Response: resp}, nil

	case RequestModifyEvent:
		resp, err := r.handleModifyEvent(ctx, id, cls.Description)
		if err != nil {
			return Result{}, err
		}
		return Result{Classification: cls, Handled: true, Response: resp}, nil

	default:
		logx.Warn("Router", "request %s not handled (category=%s)", id, cls.RequestType)
		return Result{Classification: cls}, nil
	}
}

func (r *Router) handleNewEvent(ctx context.Context, id, description string) (Response, error) {
	timer := logx.Start(id, "Router", "ExtractNewEvent")
	var details NewEventDetails
	err := llm.CompleteStructured(ctx, r.llm, llm.StructuredCall{
		Model:      r.model,
		System:     newEventPrompt,
		User:       description,
		SchemaName: "new_event_details",
		Schema:     newEventSchema(),
	}, &details)
	timer.End()
	if err != nil {
		return Response{}, fmt.Errorf("extracting new event: %w", err)
	}

	logx.Info("Router", "request %s new event name=%q date=%q", id, details.Name, details.Date)

	return Response{
		Success: true,
		Message: fmt.Sprintf("Created new event '%s' for %s with %s",
			details.Name, details.Date, strings.Join(details.Participants, ", ")),
		CalendarLink: "calendar://new?event=" + details.Name,
	}, nil
}

func (r *Router) handleModifyEvent(ctx context.Context, id, description string) (Response, error) {
	timer := logx.Start(id, "Router", "ExtractModifyEvent")
	var details ModifyEventDetails
	err := llm.CompleteStructured(ctx, r.llm, llm.StructuredCall{
		Model:      r.model,
		System:     modifyPrompt,
		User:       description,
		SchemaName: "modify_event_details",
		Schema:     modifyEventSchema(),
	}, &details)
	timer.End()
	if err != nil {
		return Response{}, fmt.Errorf("extracting event modification: %w", err)
	}

	logx.Info("Router", "request %s modifies event %q (%d changes)", id, details.EventIdentifier, len(details.Changes))

	return Response{
		Success:      true,
		Message:      fmt.Sprintf("Modified event '%s' with the requested change.", details.EventIdentifier),
		CalendarLink: "calendar://modify?event=" + details.EventIdentifier,
	}, nil
}
