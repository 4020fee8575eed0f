package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/martinemde/implore/internal/bridge"
	"github.com/martinemde/implore/internal/config"
	"github.com/martinemde/implore/internal/dialog"
	"github.com/martinemde/implore/internal/mcpserver"
	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/question"
	"github.com/martinemde/implore/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the implore tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := mcpserver.New(a.newBridge(), mcpserver.Options{
				Version: version,
				Mode:    a.cfg.Mode,
				Title:   a.cfg.Title,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			err = srv.Serve(cmd.Context(), a.stdin, a.stdout)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// uiCmd is the presentation process. The bridge runs it with detached
// standard streams and reads the outcome from --output-file.
func (a *app) uiCmd() *cobra.Command {
	var req dialog.Request

	cmd := &cobra.Command{
		Use:   protocol.Subcommand,
		Short: "Show a dialog and write the result to a file",
		Long: "Show a dialog on the terminal and write the result to --output-file.\n" +
			"The bridge runs this command; exit status 0 means the human submitted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.HasMessage = cmd.Flags().Changed(protocol.FlagMessage)
			if !dialog.Precheck(req) {
				return &exitError{code: protocol.ExitRejected}
			}

			in, out, err := dialog.OpenTerminal()
			if err != nil {
				return &exitError{code: dialog.Fail(req.OutputFile, err.Error())}
			}
			defer func() {
				_ = in.Close()
				if out != in {
					_ = out.Close()
				}
			}()

			d := dialog.New(in, out, os.Getenv("ACCESSIBLE") != "")
			if code := d.Run(cmd.Context(), req); code != protocol.ExitAccepted {
				return &exitError{code: code}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Questions, protocol.FlagQuestions, "", "Questions as a JSON array")
	flags.StringVar(&req.Message, protocol.FlagMessage, "", "Message for a single free-text prompt")
	flags.StringVar(&req.Title, protocol.FlagTitle, config.DefaultTitle, "Dialog title")
	flags.StringVar(&req.OutputFile, protocol.FlagOutputFile, "", "File to write the result to")
	_ = cmd.MarkFlagRequired(protocol.FlagOutputFile)
	cmd.MarkFlagsMutuallyExclusive(protocol.FlagQuestions, protocol.FlagMessage)

	return cmd
}

type askOptions struct {
	questionsJSON string
	texts         []string
	message       string
	title         string
	asJSON        bool
	dryRun        bool
}

func (a *app) askCmd() *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask the human once from the shell and print the answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.title == "" {
				opts.title = a.cfg.Title
			}
			if cmd.Flags().Changed("message") {
				return a.askMessage(cmd.Context(), opts)
			}
			return a.askQuiz(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.questionsJSON, "questions", "", "Questions as a JSON array")
	flags.StringArrayVarP(&opts.texts, "question", "q", nil, "A free-form question (repeatable)")
	flags.StringVar(&opts.message, "message", "", "Ask a single free-text prompt instead of questions")
	flags.StringVar(&opts.title, "title", "", "Dialog title (default from config)")
	flags.BoolVar(&opts.asJSON, "json", false, "Print the raw result as JSON")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Show the command that would be executed without running it")
	cmd.MarkFlagsMutuallyExclusive("questions", "message")
	cmd.MarkFlagsMutuallyExclusive("question", "message")

	return cmd
}

func (a *app) askQuiz(ctx context.Context, opts askOptions) error {
	var questions []question.Question
	if opts.questionsJSON != "" {
		decoded, err := question.Decode(opts.questionsJSON)
		if err != nil {
			return fmt.Errorf("failed to parse --questions: %w", err)
		}
		questions = decoded
	}
	for _, text := range opts.texts {
		questions = append(questions, question.Question{Text: text})
	}
	if len(questions) == 0 {
		return errors.New("no questions given: use --question or --questions")
	}

	prepared, err := question.Prepare(questions)
	if err != nil {
		return err
	}

	if opts.dryRun {
		flags, err := bridge.QuizFlags(prepared, opts.title)
		if err != nil {
			return err
		}
		a.printDryRun(flags)
		return nil
	}

	env := a.newBridge().Ask(ctx, prepared, opts.title)

	if opts.asJSON {
		if err := a.printJSON(env); err != nil {
			return err
		}
	} else {
		render.New(a.stdout, a.colorMode).Envelope(prepared, env)
	}

	if !env.Success {
		return &exitError{code: 1}
	}
	return nil
}

func (a *app) askMessage(ctx context.Context, opts askOptions) error {
	message := opts.message
	if message == "" {
		message = config.DefaultMessage
	}

	if opts.dryRun {
		a.printDryRun(bridge.MessageFlags(message, opts.title))
		return nil
	}

	reply := a.newBridge().AskMessage(ctx, message, opts.title)
	answered := bridge.ReplyAnswered(reply)

	if opts.asJSON {
		if err := a.printJSON(reply); err != nil {
			return err
		}
	} else {
		render.New(a.stdout, a.colorMode).Reply(reply, answered)
	}

	if !answered {
		return &exitError{code: 1}
	}
	return nil
}

func (a *app) printDryRun(flags []string) {
	_, _ = fmt.Fprintf(a.stdout, "Would execute:\n%s\n", a.launcher().CommandLine(bridge.DryRunArgs(flags)))
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(a.stdout, "implore version %s\n", version)
		},
	}
}
