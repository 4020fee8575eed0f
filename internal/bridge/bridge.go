// Package bridge runs one human-input request: it launches the presentation
// process, waits for it, and turns the result file it leaves behind into an
// envelope for the agent.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/martinemde/implore/internal/logging"
	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/question"
	"github.com/spf13/afero"
)

// Legacy message-mode replies
const (
	ReplyEmpty     = "(empty response)"
	ReplyCancelled = "(cancelled by user)"
	replyError     = "Error displaying dialog: "
)

const (
	tempPattern = "implore-*.json"
	// outputPlaceholder stands in for the temp file in dry-run command lines
	outputPlaceholder = "<output-file>"
)

// ErrNoResult means the presentation process exited without writing a result
var ErrNoResult = errors.New("dialog exited without writing a result")

// Options configures a Bridge
type Options struct {
	Launcher Launcher
	// FS holds the temporary result files. Defaults to the OS filesystem.
	FS *afero.Afero
	// TempDir is where result files are created. Empty means the system default.
	TempDir string
	// Timeout bounds each request. Zero waits until the dialog exits.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Bridge hands requests to the presentation process
type Bridge struct {
	launcher Launcher
	fs       *afero.Afero
	tempDir  string
	timeout  time.Duration
	log      *logging.Logger
}

// New creates a Bridge
func New(opts Options) *Bridge {
	fs := opts.FS
	if fs == nil {
		fs = &afero.Afero{Fs: afero.NewOsFs()}
	}
	return &Bridge{
		launcher: opts.Launcher,
		fs:       fs,
		tempDir:  opts.TempDir,
		timeout:  opts.Timeout,
		log:      logging.Component(opts.Logger, "bridge"),
	}
}

// Ask shows the questions to the human and returns their answers. It never
// returns an error: every failure is folded into an error envelope.
func (b *Bridge) Ask(ctx context.Context, questions []question.Question, title string) (env protocol.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(ctx, "recovered from panic", "panic", r)
			env = protocol.Failed(fmt.Errorf("internal error: %v", r))
		}
	}()

	prepared, err := question.Prepare(questions)
	if err != nil {
		b.log.Warn(ctx, "rejected questions", "error", err)
		return protocol.Failed(err)
	}

	flags, err := QuizFlags(prepared, title)
	if err != nil {
		return protocol.Failed(err)
	}

	result, err := b.handoff(ctx, flags)
	if err != nil {
		b.log.Error(ctx, "dialog failed", "error", err)
		return protocol.Failed(err)
	}

	if !result.Success {
		if result.Error != "" {
			b.log.Warn(ctx, "dialog reported an error", "error", result.Error)
		}
		return protocol.Cancelled()
	}

	return protocol.Answered(question.Reconcile(prepared, result.Answers))
}

// AskMessage shows a single free-text prompt and returns the reply as plain
// text, including the cancellation and error messages.
func (b *Bridge) AskMessage(ctx context.Context, message, title string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(ctx, "recovered from panic", "panic", r)
			reply = fmt.Sprintf("%sinternal error: %v", replyError, r)
		}
	}()

	result, err := b.handoff(ctx, MessageFlags(message, title))
	if err != nil {
		b.log.Error(ctx, "dialog failed", "error", err)
		return replyError + err.Error()
	}

	if !result.Success {
		return ReplyCancelled
	}

	if result.Value == nil || strings.TrimSpace(*result.Value) == "" {
		return ReplyEmpty
	}
	return *result.Value
}

// ReplyAnswered reports whether a message-mode reply came from the human
// rather than a cancellation or failure.
func ReplyAnswered(reply string) bool {
	return reply != ReplyCancelled && !strings.HasPrefix(reply, replyError)
}

// QuizFlags returns the presentation flags for a prepared question set,
// without the output file.
func QuizFlags(questions []question.Question, title string) ([]string, error) {
	encoded, err := question.Encode(questions)
	if err != nil {
		return nil, err
	}
	return []string{
		"--" + protocol.FlagQuestions, encoded,
		"--" + protocol.FlagTitle, title,
	}, nil
}

// MessageFlags returns the presentation flags for message mode
func MessageFlags(message, title string) []string {
	return []string{
		"--" + protocol.FlagMessage, message,
		"--" + protocol.FlagTitle, title,
	}
}

// BuildArgs returns the full argument list for the presentation process
func BuildArgs(flags []string, outputFile string) []string {
	args := make([]string, 0, len(flags)+3)
	args = append(args, protocol.Subcommand)
	args = append(args, flags...)
	args = append(args, "--"+protocol.FlagOutputFile, outputFile)
	return args
}

// DryRunArgs is BuildArgs with a placeholder in place of the temp file
func DryRunArgs(flags []string) []string {
	return BuildArgs(flags, outputPlaceholder)
}

// handoff runs one launch-wait-read cycle. The temp file is removed on every
// path out of this function.
func (b *Bridge) handoff(ctx context.Context, flags []string) (*protocol.FileResult, error) {
	if b.launcher == nil {
		return nil, errors.New("no launcher configured")
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	file, err := b.fs.TempFile(b.tempDir, tempPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create result file: %w", err)
	}
	path := file.Name()
	defer func() {
		if err := b.fs.Remove(path); err != nil {
			b.log.Warn(ctx, "failed to remove result file", "path", path, "error", err)
		}
	}()
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close result file: %w", err)
	}

	started := time.Now()
	b.log.Info(ctx, "launching dialog", "output_file", path)

	code, err := b.launcher.Launch(ctx, BuildArgs(flags, path))
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) && b.timeout > 0:
			return nil, fmt.Errorf("timed out waiting for response after %s", b.timeout)
		case errors.Is(err, context.Canceled):
			return nil, fmt.Errorf("request cancelled: %w", err)
		}
		return nil, err
	}

	b.log.Info(ctx, "dialog exited", "exit_code", code, "elapsed", time.Since(started).Round(time.Millisecond))

	data, err := b.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w (exit code %d)", ErrNoResult, code)
	}

	result, err := protocol.ParseFileResult(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse result file: %w", err)
	}
	return result, nil
}
