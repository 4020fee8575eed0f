package protocol

import (
	"encoding/json"

	"github.com/martinemde/implore/internal/question"
)

// Envelope is the result returned to the agent. It always encodes to exactly
// one of three shapes:
//
//	{"success": true, "answers": {...}}
//	{"success": false, "cancelled": true}
//	{"success": false, "error": "..."}
type Envelope struct {
	Success   bool             `json:"success"`
	Answers   question.Answers `json:"answers,omitempty"`
	Cancelled bool             `json:"cancelled,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Answered builds a successful envelope
func Answered(answers question.Answers) Envelope {
	if answers == nil {
		answers = question.Answers{}
	}
	return Envelope{Success: true, Answers: answers}
}

// Cancelled builds the envelope for a dismissed dialog
func Cancelled() Envelope {
	return Envelope{Cancelled: true}
}

// Failed builds an error envelope
func Failed(err error) Envelope {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Envelope{Error: msg}
}

// Kind reports which of the three shapes the envelope has
func (e Envelope) Kind() string {
	switch {
	case e.Error != "":
		return "error"
	case e.Success:
		return "answered"
	default:
		return "cancelled"
	}
}

// MarshalJSON emits only the fields that belong to the envelope's shape
func (e Envelope) MarshalJSON() ([]byte, error) {
	switch e.Kind() {
	case "error":
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, e.Error})
	case "answered":
		answers := e.Answers
		if answers == nil {
			answers = question.Answers{}
		}
		return json.Marshal(struct {
			Success bool             `json:"success"`
			Answers question.Answers `json:"answers"`
		}{true, answers})
	default:
		return json.Marshal(struct {
			Success   bool `json:"success"`
			Cancelled bool `json:"cancelled"`
		}{false, true})
	}
}

// Map returns the envelope as generic JSON data, suitable for structured
// tool results.
func (e Envelope) Map() map[string]any {
	data, err := json.Marshal(e)
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}
	return m
}
