package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SchemaMismatchError marks model output that did not decode into the
// declared schema. Callers distinguish it with errors.As.
type SchemaMismatchError struct {
	Schema string
	Raw    string
	Err    error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("output does not match schema %q: %v; raw=%s", e.Schema, e.Err, e.Raw)
}

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

// StructuredCall describes one structured-output request. Either System/User
// or Messages provides the conversation; Messages wins when set, which is how
// the tool loop issues its follow-up call on a grown conversation.
type StructuredCall struct {
	Model      string
	System     string
	User       string
	Messages   []Message
	Tools      []ToolDefinition
	SchemaName string
	Schema     map[string]any
}

// CompleteStructured issues a chat call with a strict json_schema response
// format and decodes the assistant content into out. A failed decode is a
// *SchemaMismatchError.
func CompleteStructured(ctx context.Context, c Client, call StructuredCall, out any) error {
	msgs := call.Messages
	if len(msgs) == 0 {
		msgs = []Message{
			{Role: RoleSystem, Content: call.System},
			{Role: RoleUser, Content: call.User},
		}
	}

	resp, err := c.CreateChatCompletion(ctx, ChatRequest{
		Model:    call.Model,
		Messages: msgs,
		Tools:    call.Tools,
		ResponseFormat: &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   call.SchemaName,
				Strict: true,
				Schema: call.Schema,
			},
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("structured call %q: empty response", call.SchemaName)
	}

	raw := resp.Choices[0].Message.Content
	clean := sanitizeOutput(raw)
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return &SchemaMismatchError{Schema: call.SchemaName, Raw: raw, Err: err}
	}
	return nil
}

var jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// sanitizeOutput strips the wrappers models sometimes add around JSON even
// under a structured contract: code fences, prose prefixes, curly quotes.
func sanitizeOutput(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) > 1 {
			s = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	if match := jsonObjectRe.FindString(s); match != "" {
		s = match
	}

	s = strings.ReplaceAll(s, "“", "\"")
	s = strings.ReplaceAll(s, "”", "\"")
	s = strings.ReplaceAll(s, "‘", "'")
	s = strings.ReplaceAll(s, "’", "'")

	return strings.TrimSpace(s)
}
