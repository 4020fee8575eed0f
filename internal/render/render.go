// Package render prints results and help for people running implore from a
// shell.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/question"
	"github.com/muesli/termenv"
)

var (
	successIcon   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).SetString("✓")
	errorIcon     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).SetString("✗")
	cancelledIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).SetString("☐")
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Renderer writes human-readable output
type Renderer struct {
	out    io.Writer
	colors bool
	md     *glamour.TermRenderer
}

// New creates a renderer for out. colorMode is auto, always or never.
func New(out io.Writer, colorMode string) *Renderer {
	return &Renderer{
		out:    out,
		colors: ShouldUseColors(colorMode, out),
		md:     markdownRenderer(colorMode),
	}
}

// Envelope prints the outcome of a quiz with one table row per question
func (r *Renderer) Envelope(questions []question.Question, env protocol.Envelope) {
	switch env.Kind() {
	case "error":
		_, _ = fmt.Fprintf(r.out, "%s Failed%s\n", r.icon(errorIcon), r.dim(fmt.Sprintf(" (%s)", env.Error)))
	case "cancelled":
		_, _ = fmt.Fprintf(r.out, "%s Cancelled by user\n", r.icon(cancelledIcon))
	default:
		_, _ = fmt.Fprintf(r.out, "%s Answered\n", r.icon(successIcon))
		r.answers(questions, env.Answers)
	}
}

// Reply prints the reply from a message dialog
func (r *Renderer) Reply(reply string, answered bool) {
	icon := successIcon
	if !answered {
		icon = cancelledIcon
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.icon(icon), reply)
}

// Markdown renders text with glamour, or returns it unchanged when colors are
// off or rendering fails.
func (r *Renderer) Markdown(text string) string {
	if r.md == nil {
		return text
	}
	rendered, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

func (r *Renderer) answers(questions []question.Question, answers question.Answers) {
	if len(questions) == 0 {
		return
	}

	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		answer := r.dim("(no answer)")
		if a := answers[q.ID]; a != nil && *a != "" {
			answer = *a
		}
		rows = append(rows, []string{q.ID, q.Text, answer})
	}

	borderStyle := lipgloss.NewStyle()
	if r.colors {
		borderStyle = borderStyle.Foreground(lipgloss.Color("8"))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 && r.colors {
				return dimStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("ID", "Question", "Answer").
		Rows(rows...)

	_, _ = fmt.Fprintln(r.out, t)
}

func (r *Renderer) icon(icon lipgloss.Style) string {
	if !r.colors {
		icon = icon.UnsetForeground()
	}
	return icon.String()
}

func (r *Renderer) dim(s string) string {
	if !r.colors {
		return s
	}
	return dimStyle.Render(s)
}

// markdownRenderer returns nil when colors are disabled
func markdownRenderer(colorMode string) *glamour.TermRenderer {
	var opts []glamour.TermRendererOption

	switch colorMode {
	case ColorNever:
		return nil
	case ColorAlways:
		opts = append(opts,
			glamour.WithAutoStyle(),
			glamour.WithColorProfile(termenv.TrueColor),
			glamour.WithWordWrap(80),
		)
	default:
		opts = append(opts,
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	}

	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	return md
}
