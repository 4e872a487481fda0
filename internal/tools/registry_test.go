package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pcastellanos/llm-workflows/internal/llm"
)

func TestRegistry_CallDispatchesByName(t *testing.T) {
	reg := NewRegistry()
	var gotArgs json.RawMessage
	reg.Register(llm.NewToolDefinition("echo", "Echo input.", map[string]any{"type": "object"}),
		func(ctx context.Context, args json.RawMessage) (any, error) {
			gotArgs = args
			return map[string]any{"ok": true}, nil
		})

	out, err := reg.Call(context.Background(), "echo", json.RawMessage(`{"x":1}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"ok": true}, out)
	require.JSONEq(t, `{"x":1}`, string(gotArgs))
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg := NewRegistry()

	out, err := reg.Call(context.Background(), "get_forecast", json.RawMessage(`{}`))
	require.Nil(t, out)
	require.ErrorIs(t, err, ErrUnknownTool)
	require.Contains(t, err.Error(), "get_forecast")
}

func TestRegistry_HandlerErrorPropagates(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	reg.Register(llm.NewToolDefinition("flaky", "", nil),
		func(ctx context.Context, args json.RawMessage) (any, error) {
			return nil, boom
		})

	_, err := reg.Call(context.Background(), "flaky", nil)
	require.ErrorIs(t, err, boom)
}

func TestRegistry_DefinitionsSortedByName(t *testing.T) {
	reg := NewRegistry()
	noop := func(ctx context.Context, args json.RawMessage) (any, error) { return nil, nil }
	reg.Register(llm.NewToolDefinition("zulu", "", nil), noop)
	reg.Register(llm.NewToolDefinition("alpha", "", nil), noop)

	defs := reg.Definitions()
	require.Len(t, defs, 2)
	require.Equal(t, "alpha", defs[0].Function.Name)
	require.Equal(t, "zulu", defs[1].Function.Name)
	require.Equal(t, "function", defs[0].Type)
}
