package question

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// arguments decodes JSON the same way the MCP transport does
func arguments(t *testing.T, data string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return v
}

func TestFromArguments(t *testing.T) {
	raw := arguments(t, `[
		{"text": "Which framework?", "type": "multiple_choice", "options": ["React", "Vue"]},
		{"id": "extra", "text": "Anything else?"}
	]`)

	got, err := FromArguments(raw)
	if err != nil {
		t.Fatalf("FromArguments failed: %v", err)
	}

	want := []Question{
		{Text: "Which framework?", Type: MultipleChoice, Options: []string{"React", "Vue"}},
		{ID: "extra", Text: "Anything else?"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestFromArguments_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"missing", `null`, "missing 'questions'"},
		{"not array", `{"text": "hi"}`, "not an array"},
		{"item not object", `["hi"]`, "question 1 is not an object"},
		{"missing text", `[{"id": "a"}]`, "question 1 missing 'text'"},
		{"bad id", `[{"text": "a", "id": 3}]`, "'id' is not a string"},
		{"bad options", `[{"text": "a", "options": "x"}]`, "'options' is not an array"},
		{"bad option", `[{"text": "a", "options": ["x", 2]}]`, "option 2 is not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromArguments(arguments(t, tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode("{bad"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestEncodeDecode(t *testing.T) {
	questions := []Question{
		{ID: "q1", Text: "Pick", Type: MultipleChoice, Options: []string{"a", "b"}},
		{ID: "q2", Text: "Say", Type: FreeForm},
	}

	data, err := Encode(questions)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(data, `"q2","text":"Say","type":"free_form","options"`) {
		t.Errorf("free_form question should omit options: %s", data)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(questions, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
