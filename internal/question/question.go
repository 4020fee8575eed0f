// Package question defines the questions an agent asks and the answers a
// human gives back.
package question

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type identifies how a question is answered
type Type string

const (
	// MultipleChoice questions are answered by picking one of Options
	MultipleChoice Type = "multiple_choice"
	// FreeForm questions are answered with arbitrary text
	FreeForm Type = "free_form"
)

var (
	ErrDuplicateID    = errors.New("duplicate question id")
	ErrMissingOptions = errors.New("multiple_choice question requires options")
	ErrUnknownType    = errors.New("unknown question type")
)

// Question is a single question shown to the human
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    Type     `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Answers maps question id to the answer. A nil value means no option was
// selected for a multiple_choice question.
type Answers map[string]*string

// Normalize fills in defaults: a missing id becomes "q<N>" (1-based position)
// and a missing type becomes free_form. The input slice is not modified.
func Normalize(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i+1)
		}
		if q.Type == "" {
			q.Type = FreeForm
		}
		out[i] = q
	}
	return out
}

// Validate checks a normalized question set
func Validate(questions []Question) error {
	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		if prev, ok := seen[q.ID]; ok {
			return fmt.Errorf("%w: %q used by questions %d and %d", ErrDuplicateID, q.ID, prev+1, i+1)
		}
		seen[q.ID] = i

		switch q.Type {
		case MultipleChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q: %w", q.ID, ErrMissingOptions)
			}
		case FreeForm:
		default:
			return fmt.Errorf("question %q: %w: %s", q.ID, ErrUnknownType, q.Type)
		}
	}
	return nil
}

// Prepare normalizes and validates in one step
func Prepare(questions []Question) ([]Question, error) {
	normalized := Normalize(questions)
	if err := Validate(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Empty returns the answer recorded when a question is left unanswered
func (q Question) Empty() *string {
	if q.Type == MultipleChoice {
		return nil
	}
	empty := ""
	return &empty
}

// Reconcile returns an answer set with exactly one entry per question.
// Answers for unknown ids are dropped; missing ones get the question's empty
// answer. Free-form answers are trimmed.
func Reconcile(questions []Question, answers Answers) Answers {
	out := make(Answers, len(questions))
	for _, q := range questions {
		value, ok := answers[q.ID]
		if !ok || value == nil {
			out[q.ID] = q.Empty()
			continue
		}
		if q.Type == FreeForm {
			trimmed := strings.TrimSpace(*value)
			out[q.ID] = &trimmed
			continue
		}
		v := *value
		out[q.ID] = &v
	}
	return out
}

// StringPtr is a convenience for building answers
func StringPtr(s string) *string {
	return &s
}
