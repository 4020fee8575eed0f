// Package dialog is the presentation side of implore: it shows the questions
// on a terminal with huh forms and writes the outcome to the result file the
// bridge is waiting on.
package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/question"
)

// noAnswer is the select value for leaving a multiple_choice question blank
const noAnswer = "\x00none"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginBottom(1)
)

// Request is one invocation of the presentation process
type Request struct {
	// Questions is the raw JSON from --questions. Ignored when HasMessage is set.
	Questions  string
	Message    string
	HasMessage bool
	Title      string
	OutputFile string
}

// Dialog renders forms on a terminal
type Dialog struct {
	in         io.Reader
	out        io.Writer
	accessible bool
	run        func(context.Context, *huh.Form) error
}

// New creates a Dialog that reads keys from in and draws on out
func New(in io.Reader, out io.Writer, accessible bool) *Dialog {
	d := &Dialog{in: in, out: out, accessible: accessible}
	d.run = d.runForm
	return d
}

// Run shows the request and writes exactly one result to req.OutputFile.
// The returned value is the process exit code.
func (d *Dialog) Run(ctx context.Context, req Request) int {
	if req.OutputFile == "" {
		return protocol.ExitRejected
	}
	if req.HasMessage {
		return d.runMessage(ctx, req)
	}
	return d.runQuiz(ctx, req)
}

// Precheck validates the parts of a request that need no terminal. For
// malformed questions it writes the Invalid JSON result and returns false.
func Precheck(req Request) bool {
	if req.OutputFile == "" {
		return false
	}
	if req.HasMessage {
		return true
	}
	if _, err := question.Decode(req.Questions); err != nil {
		Fail(req.OutputFile, fmt.Sprintf("Invalid JSON: %v", err))
		return false
	}
	return true
}

func (d *Dialog) runQuiz(ctx context.Context, req Request) int {
	questions, err := question.Decode(req.Questions)
	if err != nil {
		return Fail(req.OutputFile, fmt.Sprintf("Invalid JSON: %v", err))
	}
	questions = question.Normalize(questions)

	form, session := quizForm(questions, req.Title)
	d.header(req.Title, subtitle(len(questions)))

	err = d.run(ctx, form)
	switch {
	case errors.Is(err, huh.ErrUserAborted):
		return d.cancelQuiz(req.OutputFile)
	case err != nil:
		return Fail(req.OutputFile, err.Error())
	case !session.submit:
		return d.cancelQuiz(req.OutputFile)
	}

	result := protocol.QuizResult{Success: true, Answers: session.answers()}
	if err := writeResult(req.OutputFile, result); err != nil {
		return protocol.ExitRejected
	}
	return protocol.ExitAccepted
}

func (d *Dialog) runMessage(ctx context.Context, req Request) int {
	var value string
	submit := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(req.Message).
				Placeholder("Type your answer here...").
				Value(&value),
			huh.NewConfirm().
				Affirmative("Submit").
				Negative("Cancel").
				Value(&submit),
		),
	)
	d.header(req.Title, "")

	err := d.run(ctx, form)
	if err != nil && !errors.Is(err, huh.ErrUserAborted) {
		return Fail(req.OutputFile, err.Error())
	}

	accepted := err == nil && submit
	result := protocol.MessageResult{Success: accepted}
	if accepted {
		result.Value = strings.TrimSpace(value)
	}
	if err := writeResult(req.OutputFile, result); err != nil || !accepted {
		return protocol.ExitRejected
	}
	return protocol.ExitAccepted
}

func (d *Dialog) cancelQuiz(path string) int {
	_ = writeResult(path, protocol.QuizResult{Success: false, Answers: question.Answers{}})
	return protocol.ExitRejected
}

// Fail writes an error result to path and returns the matching exit code
func Fail(path, msg string) int {
	if path == "" {
		return protocol.ExitRejected
	}
	_ = writeResult(path, protocol.FailureResult{Success: false, Error: msg})
	return protocol.ExitRejected
}

func (d *Dialog) header(title, sub string) {
	if d.out == nil || title == "" {
		return
	}
	_, _ = fmt.Fprintln(d.out, titleStyle.Render(title))
	if sub != "" {
		_, _ = fmt.Fprintln(d.out, subtitleStyle.Render(sub))
	}
}

func (d *Dialog) runForm(ctx context.Context, form *huh.Form) error {
	return form.
		WithInput(d.in).
		WithOutput(d.out).
		WithAccessible(d.accessible).
		RunWithContext(ctx)
}

func subtitle(count int) string {
	if count == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", count)
}

// session holds the values the form fields write into
type session struct {
	fields []*field
	submit bool
}

type field struct {
	q      question.Question
	choice string
	text   string
}

// answers builds the answer set from the bound field values
func (s *session) answers() question.Answers {
	answers := make(question.Answers, len(s.fields))
	for _, f := range s.fields {
		switch f.q.Type {
		case question.MultipleChoice:
			if f.choice == "" || f.choice == noAnswer {
				answers[f.q.ID] = nil
			} else {
				answers[f.q.ID] = question.StringPtr(f.choice)
			}
		default:
			answers[f.q.ID] = question.StringPtr(strings.TrimSpace(f.text))
		}
	}
	return answers
}

// quizForm builds one group per question and a final submit/cancel group
func quizForm(questions []question.Question, title string) (*huh.Form, *session) {
	s := &session{submit: true}
	groups := make([]*huh.Group, 0, len(questions)+1)

	for i, q := range questions {
		f := &field{q: q, choice: noAnswer}
		s.fields = append(s.fields, f)
		label := fmt.Sprintf("Question %d", i+1)

		switch q.Type {
		case question.MultipleChoice:
			options := make([]huh.Option[string], 0, len(q.Options)+1)
			for _, opt := range q.Options {
				options = append(options, huh.NewOption(opt, opt))
			}
			options = append(options, huh.NewOption("(no answer)", noAnswer))

			groups = append(groups, huh.NewGroup(
				huh.NewSelect[string]().
					Title(label).
					Description(q.Text).
					Options(options...).
					Value(&f.choice),
			))
		default:
			groups = append(groups, huh.NewGroup(
				huh.NewText().
					Title(label).
					Description(q.Text).
					Placeholder("Type your answer here...").
					Value(&f.text),
			))
		}
	}

	groups = append(groups, huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(subtitle(len(questions))).
			Affirmative("Submit").
			Negative("Cancel").
			Value(&s.submit),
	))

	return huh.NewForm(groups...), s
}

// writeResult replaces the output file's content with v
func writeResult(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
