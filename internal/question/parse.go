package question

import (
	"encoding/json"
	"fmt"
)

// FromArguments extracts questions from decoded tool arguments. The value is
// expected to be a JSON array of objects; ids, types and options are optional.
func FromArguments(raw any) ([]Question, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing 'questions' field in input")
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'questions' is not an array")
	}

	questions := make([]Question, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("question %d is not an object", i+1)
		}

		q := Question{}

		if v, ok := fields["text"].(string); ok {
			q.Text = v
		} else {
			return nil, fmt.Errorf("question %d missing 'text' field", i+1)
		}

		if v, ok := fields["id"]; ok && v != nil {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("question %d 'id' is not a string", i+1)
			}
			q.ID = s
		}

		if v, ok := fields["type"]; ok && v != nil {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("question %d 'type' is not a string", i+1)
			}
			q.Type = Type(s)
		}

		if v, ok := fields["options"]; ok && v != nil {
			opts, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("question %d 'options' is not an array", i+1)
			}
			for j, opt := range opts {
				s, ok := opt.(string)
				if !ok {
					return nil, fmt.Errorf("question %d option %d is not a string", i+1, j+1)
				}
				q.Options = append(q.Options, s)
			}
		}

		questions = append(questions, q)
	}

	return questions, nil
}

// Decode parses the JSON handed to the presentation process
func Decode(data string) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Encode serializes a question set for the presentation process
func Encode(questions []Question) (string, error) {
	data, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}
	return string(data), nil
}
