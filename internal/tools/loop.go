package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
)

const weatherSystemPrompt = "You are a helpful weather assistant."

// WeatherReport is the structured final answer of the weather loop.
type WeatherReport struct {
	Temperature float64 `json:"temperature"`
	Response    string  `json:"response"`
}

func weatherReportSchema() map[string]any {
	return llm.ObjectSchema(map[string]any{
		"temperature": map[string]any{
			"type":        "number",
			"description": "The current temperature in celsius for the given location",
		},
		"response": map[string]any{
			"type":        "string",
			"description": "A natural language response to the user's question",
		},
	})
}

// Loop runs the tool-calling pattern: one chat round with the registry's
// declarations, local execution of whatever the model called, then a second
// structured round over the grown conversation.
type Loop struct {
	llm      llm.Client
	model    string
	registry *Registry
}

func NewLoop(c llm.Client, model string, reg *Registry) *Loop {
	return &Loop{llm: c, model: model, registry: reg}
}

func (l *Loop) Run(ctx context.Context, question string) (*WeatherReport, error) {
	id := uuid.NewString()
	logx.Info("ToolLoop", "request id=%s question=%q", id, question)

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: weatherSystemPrompt},
		{Role: llm.RoleUser, Content: question},
	}
	defs := l.registry.Definitions()

	resp, err := l.llm.CreateChatCompletion(ctx, llm.ChatRequest{
		Model:    l.model,
		Messages: msgs,
		Tools:    defs,
	})
	if err != nil {
		return nil, fmt.Errorf("tool round: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("tool round: empty response")
	}

	assistant := resp.Choices[0].Message
	msgs = append(msgs, assistant)

	for _, tc := range assistant.ToolCalls {
		logx.Info("ToolLoop", "request %s calls %s(%s)", id, tc.Function.Name, tc.Function.Arguments)

		out, err := l.registry.Call(ctx, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
		if err != nil {
			if !errors.Is(err, ErrUnknownTool) {
				return nil, fmt.Errorf("executing tool %s: %w", tc.Function.Name, err)
			}
			// Unknown names keep the historical wire behavior: the nil
			// result below serializes as the JSON null literal.
			logx.Warn("ToolLoop", "request %s: %v", id, err)
		}

		content, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("serializing result of %s: %w", tc.Function.Name, err)
		}
		msgs = append(msgs, llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: tc.ID,
			Name:       tc.Function.Name,
			Content:    string(content),
		})
	}

	timer := logx.Start(id, "ToolLoop", "FinalStructuredRound")
	var report WeatherReport
	err = llm.CompleteStructured(ctx, l.llm, llm.StructuredCall{
		Model:      l.model,
		Messages:   msgs,
		Tools:      defs,
		SchemaName: "weather_report",
		Schema:     weatherReportSchema(),
	}, &report)
	timer.End()
	if err != nil {
		return nil, err
	}
	return &report, nil
}
