package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/question"
)

var testQuestions = []question.Question{
	{ID: "framework", Text: "Framework?", Type: question.MultipleChoice, Options: []string{"React", "Vue"}},
	{ID: "notes", Text: "Notes?", Type: question.FreeForm},
}

func TestShouldUseColors(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		mode string
		want bool
	}{
		{ColorAlways, true},
		{ColorNever, false},
		{ColorAuto, false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := ShouldUseColors(tt.mode, &buf); got != tt.want {
				t.Errorf("ShouldUseColors(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestEnvelope_Answered(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	r.Envelope(testQuestions, protocol.Answered(question.Answers{
		"framework": question.StringPtr("React"),
		"notes":     question.StringPtr(""),
	}))

	output := buf.String()
	for _, want := range []string{"✓ Answered", "Framework?", "React", "Notes?", "(no answer)"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("output should not contain escape codes with colors off:\n%q", output)
	}
}

func TestEnvelope_Cancelled(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	r.Envelope(testQuestions, protocol.Cancelled())

	if got := buf.String(); got != "☐ Cancelled by user\n" {
		t.Errorf("output = %q", got)
	}
}

func TestEnvelope_Error(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	r.Envelope(testQuestions, protocol.Failed(errors.New("timed out waiting for response after 1s")))

	if got := buf.String(); got != "✗ Failed (timed out waiting for response after 1s)\n" {
		t.Errorf("output = %q", got)
	}
}

func TestReply(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	r.Reply("ship it", true)
	r.Reply("(cancelled by user)", false)

	want := "✓ ship it\n☐ (cancelled by user)\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestMarkdown_Plain(t *testing.T) {
	r := New(&bytes.Buffer{}, ColorNever)

	if got := r.Markdown("# Title\n\n*text*"); got != "# Title\n\n*text*" {
		t.Errorf("Markdown() with colors off should return input, got %q", got)
	}
}

func TestMarkdown_Rendered(t *testing.T) {
	r := New(&bytes.Buffer{}, ColorAlways)

	got := r.Markdown("# Usage\n\nRun `implore serve`.")
	if !strings.Contains(got, "Usage") || !strings.Contains(got, "implore serve") {
		t.Errorf("rendered markdown lost content: %q", got)
	}
}
