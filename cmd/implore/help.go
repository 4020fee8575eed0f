package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/martinemde/implore/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// printHelp renders help for cmd. The root command gets the full page;
// subcommands get a title and their flag usage.
func (a *app) printHelp(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	colorMode := a.colorMode
	if colorMode == "" {
		colorMode = render.ColorAuto
	}
	useColors := render.ShouldUseColors(colorMode, w)
	r := render.New(w, colorMode)

	titleStyle := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).MarginTop(1)
	optionStyle := lipgloss.NewStyle()
	codeStyle := lipgloss.NewStyle().Italic(true)
	descStyle := lipgloss.NewStyle()

	if useColors {
		titleStyle = titleStyle.Foreground(lipgloss.Color("6"))
		sectionStyle = sectionStyle.Foreground(lipgloss.Color("3"))
		optionStyle = optionStyle.Foreground(lipgloss.Color("2"))
		codeStyle = codeStyle.Foreground(lipgloss.Color("8"))
		descStyle = descStyle.Foreground(lipgloss.Color("7"))
	}

	if cmd.HasParent() {
		printCommandHelp(w, cmd, titleStyle, sectionStyle, optionStyle)
		return
	}

	title := titleStyle.Render("implore - Ask the human a question from inside an agent")

	usage := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Usage:"),
		"  implore <command> [options]",
	)

	description := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Description:"),
		descStyle.Render("  implore serves an MCP tool that pauses the agent, shows the questions"),
		descStyle.Render("  to the human in a terminal dialog, and returns the answers."),
		"",
		"  Each tool call returns one of:",
		"  • answers keyed by question id "+codeStyle.Render(`{"success": true, "answers": {...}}`),
		"  • a cancelled dialog "+codeStyle.Render(`{"success": false, "cancelled": true}`),
		"  • an error "+codeStyle.Render(`{"success": false, "error": "..."}`),
	)

	commands := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Commands:"),
		fmt.Sprintf("  %s      Serve the implore tool over MCP stdio", optionStyle.Render("serve")),
		fmt.Sprintf("  %s        Ask once from the shell and print the answers", optionStyle.Render("ask")),
		fmt.Sprintf("  %s         Show a dialog and write the result to a file", optionStyle.Render("ui")),
		fmt.Sprintf("  %s    Show version information", optionStyle.Render("version")),
	)

	options := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Options:"),
		fmt.Sprintf("  %s            Show this help message", optionStyle.Render("--help")),
		fmt.Sprintf("  %s         Show version information", optionStyle.Render("--version")),
		fmt.Sprintf("  %s          Path to the config file (default: $XDG_CONFIG_HOME/implore/config.yaml)", optionStyle.Render("--config")),
		fmt.Sprintf("  %s           Control color output (auto, always, never)", optionStyle.Render("--color")),
	)

	examplesBlock := `~~~sh
# Register with an MCP client
implore serve

# Ask from the shell
implore ask -q "What should the release be called?"

# Multiple choice, printed as JSON
implore ask --json --questions '[{"text": "Framework?", "type": "multiple_choice", "options": ["React", "Vue"]}]'

# Show the dialog command without running it
implore ask --dry-run -q "Ready?"
~~~`

	examples := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Examples:"),
		r.Markdown(examplesBlock),
	)

	configExample := `~~~yaml
mode: quiz            # or message
title: Human Input Requested
timeout: 10m          # 0 waits until the dialog closes
ui:
  terminal: [wezterm, start, --]
log:
  level: info
  file: ~/.local/state/implore/implore.log
~~~`

	configSection := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Configuration:"),
		"  Settings are read from YAML. Every key is optional:",
		"",
		r.Markdown(configExample),
	)

	help := lipgloss.JoinVertical(lipgloss.Left,
		title,
		usage,
		description,
		commands,
		options,
		examples,
		configSection,
	)

	_, _ = fmt.Fprintln(w, help)
}

func printCommandHelp(w io.Writer, cmd *cobra.Command, titleStyle, sectionStyle, optionStyle lipgloss.Style) {
	short := cmd.Short
	if cmd.Long != "" {
		short = cmd.Long
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("implore %s - %s", cmd.Name(), cmd.Short)),
		sectionStyle.Render("Usage:"),
		"  " + cmd.UseLine(),
		"",
		"  " + strings.ReplaceAll(short, "\n", "\n  "),
	}

	var flags []string
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		flags = append(flags, fmt.Sprintf("  %-22s %s", optionStyle.Render(name), f.Usage))
	})
	if len(flags) > 0 {
		lines = append(lines, sectionStyle.Render("Options:"))
		lines = append(lines, flags...)
	}

	_, _ = fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
