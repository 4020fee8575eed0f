// Package protocol defines the handoff between the bridge and the
// presentation process: the command line the bridge passes and the JSON
// result the presentation writes back.
package protocol

import (
	"encoding/json"

	"github.com/martinemde/implore/internal/question"
)

// Command-line contract of the presentation process
const (
	Subcommand     = "ui"
	FlagQuestions  = "questions"
	FlagMessage    = "message"
	FlagTitle      = "title"
	FlagOutputFile = "output-file"
)

// Exit codes of the presentation process
const (
	ExitAccepted = 0
	ExitRejected = 1
)

// QuizResult is written by the presentation in quiz mode. Answers is always
// present and is empty when the user cancelled.
type QuizResult struct {
	Success bool             `json:"success"`
	Answers question.Answers `json:"answers"`
}

// MessageResult is written by the presentation in single-message mode
type MessageResult struct {
	Success bool   `json:"success"`
	Value   string `json:"value"`
}

// FailureResult is written when the presentation could not start, e.g. when
// it was given malformed question JSON.
type FailureResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// FileResult is the union of everything the presentation may write, as read
// back by the bridge.
type FileResult struct {
	Success bool             `json:"success"`
	Answers question.Answers `json:"answers,omitempty"`
	Value   *string          `json:"value,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ParseFileResult decodes the contents of a result file
func ParseFileResult(data []byte) (*FileResult, error) {
	var result FileResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
