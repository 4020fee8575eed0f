// Package mcpserver exposes the implore tool to an agent over MCP stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/martinemde/implore/internal/config"
	"github.com/martinemde/implore/internal/logging"
	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/question"
)

// ToolName is the name agents call
const ToolName = "implore"

const (
	quizDescription = "Implore the human: show a dialog with one or more questions and wait for the answers. " +
		"multiple_choice questions return the chosen option or null; free_form questions return the trimmed text. " +
		"Returns {success, answers}, {success: false, cancelled: true}, or {success: false, error}."
	messageDescription = "Implore the human: display a dialog with the message and wait for a free-text reply. " +
		"Returns the reply, or a note that the dialog was cancelled."
)

// Asker runs a request against the human. bridge.Bridge implements it.
type Asker interface {
	Ask(ctx context.Context, questions []question.Question, title string) protocol.Envelope
	AskMessage(ctx context.Context, message, title string) string
}

// Options configures the server
type Options struct {
	Name    string
	Version string
	// Mode is config.ModeQuiz or config.ModeMessage
	Mode string
	// Title is the default dialog title
	Title  string
	Logger *slog.Logger
}

// Server wraps the MCP server and its single tool
type Server struct {
	mcp    *server.MCPServer
	asker  Asker
	title  string
	logger *slog.Logger
	log    *logging.Logger
}

// New creates a server with the implore tool registered
func New(asker Asker, opts Options) (*Server, error) {
	name := opts.Name
	if name == "" {
		name = "implore"
	}
	title := opts.Title
	if title == "" {
		title = config.DefaultTitle
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp: server.NewMCPServer(
			name,
			opts.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		asker:  asker,
		title:  title,
		logger: logger,
		log:    logging.Component(logger, "mcpserver"),
	}

	switch opts.Mode {
	case config.ModeMessage:
		schema, err := inputSchema(&MessageArguments{})
		if err != nil {
			return nil, err
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(ToolName, messageDescription, schema), s.handleMessage)
	case config.ModeQuiz, "":
		schema, err := inputSchema(&QuizArguments{})
		if err != nil {
			return nil, err
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(ToolName, quizDescription, schema), s.handleQuiz)
	default:
		return nil, fmt.Errorf("unknown tool mode: %s", opts.Mode)
	}

	return s, nil
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve speaks MCP on in/out until ctx is done or in is closed
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.log.Info(ctx, "serving over stdio", "tool", ToolName)
	return stdio.Listen(ctx, in, out)
}

// handleQuiz answers a quiz-mode call. Failures become error envelopes, never
// protocol errors.
func (s *Server) handleQuiz(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, _ = logging.WithRequestID(ctx)
	title := req.GetString("title", s.title)

	var env protocol.Envelope
	questions, err := question.FromArguments(req.GetArguments()["questions"])
	if err != nil {
		env = protocol.Failed(fmt.Errorf("failed to parse questions: %w", err))
	} else {
		s.log.Info(ctx, "tool called", "questions", len(questions), "title", title)
		env = s.asker.Ask(ctx, questions, title)
	}

	s.log.Info(ctx, "tool finished", "outcome", env.Kind())
	return envelopeResult(env), nil
}

// handleMessage answers a message-mode call with plain text
func (s *Server) handleMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, _ = logging.WithRequestID(ctx)
	message := req.GetString("message", config.DefaultMessage)
	title := req.GetString("title", s.title)

	s.log.Info(ctx, "tool called", "title", title)
	reply := s.asker.AskMessage(ctx, message, title)
	return mcp.NewToolResultText(reply), nil
}

func envelopeResult(env protocol.Envelope) *mcp.CallToolResult {
	data, err := json.Marshal(env)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"success":false,"error":%q}`, err.Error()))
	}
	return mcp.NewToolResultStructured(env.Map(), string(data))
}
