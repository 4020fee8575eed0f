package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// QuizArguments is the input of the implore tool in quiz mode
type QuizArguments struct {
	Questions []QuestionArgument `json:"questions" jsonschema_description:"Questions to show the human, in display order."`
	Title     string             `json:"title,omitempty" jsonschema_description:"Title of the dialog window."`
}

// QuestionArgument is one entry of QuizArguments.Questions
type QuestionArgument struct {
	ID      string   `json:"id,omitempty" jsonschema_description:"Key for this question in the answers map. Defaults to q1, q2, ... by position."`
	Text    string   `json:"text" jsonschema_description:"The question shown to the human."`
	Type    string   `json:"type,omitempty" jsonschema:"enum=multiple_choice,enum=free_form,default=free_form"`
	Options []string `json:"options,omitempty" jsonschema_description:"Choices for a multiple_choice question. Required for that type."`
}

// MessageArguments is the input of the implore tool in message mode
type MessageArguments struct {
	Message string `json:"message,omitempty" jsonschema_description:"The message to display to the human."`
	Title   string `json:"title,omitempty" jsonschema_description:"Title of the dialog window."`
}

// inputSchema reflects a JSON schema for v, inlined so that MCP clients
// without $ref support can read it.
func inputSchema(v any) (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input schema: %w", err)
	}
	return data, nil
}
