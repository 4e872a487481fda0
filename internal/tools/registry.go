// Package tools implements the tool-calling pattern: a registry of callable
// handlers with declared parameter schemas, the weather tool, and the
// two-phase execution loop.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/metrics"
)

// ErrUnknownTool marks a dispatch for a name no handler was registered under.
var ErrUnknownTool = errors.New("unknown tool")

// Handler executes one tool call. args is the raw JSON arguments string from
// the model.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps tool names to handlers plus the declarations sent to the
// model. Registration happens at startup; lookups are read-only after that.
type Registry struct {
	defs     map[string]llm.ToolDefinition
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		defs:     make(map[string]llm.ToolDefinition),
		handlers: make(map[string]Handler),
	}
}

func (r *Registry) Register(def llm.ToolDefinition, h Handler) {
	r.defs[def.Function.Name] = def
	r.handlers[def.Function.Name] = h
}

// Definitions returns the declared tools in name order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]llm.ToolDefinition, 0, len(names))
	for _, n := range names {
		out = append(out, r.defs[n])
	}
	return out
}

// Call dispatches by name. An unregistered name returns a nil result and
// ErrUnknownTool; the loop decides how to surface that.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		metrics.RecordToolExecution(name, "unknown")
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	out, err := h(ctx, args)
	if err != nil {
		metrics.RecordToolExecution(name, "error")
		return nil, err
	}
	metrics.RecordToolExecution(name, "ok")
	return out, nil
}
