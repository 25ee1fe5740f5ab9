package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	headingcommand "github.com/baditaflorin/go_heading_command"
	stdlog "github.com/baditaflorin/go_heading_command/internal/adapters/logger"
	"github.com/baditaflorin/go_heading_command/internal/adapters/memdoc"
	"github.com/baditaflorin/go_heading_command/internal/adapters/normalizer"
	"github.com/baditaflorin/go_heading_command/internal/adapters/notifier"
	"github.com/baditaflorin/go_heading_command/internal/config"
	"github.com/baditaflorin/go_heading_command/internal/core/identifier"
	"github.com/baditaflorin/go_heading_command/internal/warmup"
)

// server holds the state shared by all handlers
type server struct {
	cfg    config.Config
	logger l.Logger
	parser *memdoc.Parser
	norm   headingcommand.Normalizer
}

// NormalizeRequest asks for the token of a text
type NormalizeRequest struct {
	Text string `json:"text"`
}

// NormalizeResponse carries a normalized token
type NormalizeResponse struct {
	Token string `json:"token"`
}

// IdentifierRequest asks for the id a heading would get
type IdentifierRequest struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// IdentifierResponse carries a heading id
type IdentifierResponse struct {
	ID string `json:"id"`
}

// ExecuteRequest runs the heading command on a markdown document
type ExecuteRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title"`
	// From and To select blocks by zero based index, inclusive.
	From int `json:"from"`
	To   int `json:"to"`
	// Caret collapses the selection into block From.
	Caret    bool   `json:"caret,omitempty"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
}

// ExecuteResponse is the converted document plus the command outcome
type ExecuteResponse struct {
	HTML   string                `json:"html"`
	State  headingcommand.State  `json:"state"`
	Report headingcommand.Report `json:"report"`
	Alerts []string              `json:"alerts,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	configFile := flag.String("config", "", "YAML config file (empty = defaults and HEADING_* env)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, logOutput, err := createLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	// The logger flushes into logOutput, so it has to close first.
	defer logOutput.Close()
	defer logger.Close()

	s := newServer(cfg, logger)

	wm := warmup.NewManager(stdlog.FromExisting(logger), warmup.WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleTextSize: 200,
		Duration:       2 * time.Second,
		ForceGC:        true,
	})
	wm.RegisterNormalizer(s.norm)
	wm.WarmUp(context.Background())

	logger.Info("Starting heading command HTTP server",
		"addr", cfg.Server.Addr(),
		"read_timeout", cfg.Server.ReadTimeout,
		"write_timeout", cfg.Server.WriteTimeout,
		"max_request_size", cfg.Server.MaxRequestSize,
		"language", cfg.Editor.Language,
	)

	httpServer := &fasthttp.Server{
		Handler:               s.requestHandler,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		MaxRequestBodySize:    cfg.Server.MaxRequestSize,
		Concurrency:           cfg.Server.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := httpServer.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	if err := httpServer.ListenAndServe(cfg.Server.Addr()); err != nil {
		logger.Error("Server error", "error", err)
		close(idleConnsClosed)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

func newServer(cfg config.Config, logger l.Logger) *server {
	normType := normalizer.DefaultNormalizerType
	if cfg.Normalizer.Compose {
		normType = normalizer.ComposingNormalizerType
	}
	return &server{
		cfg:    cfg,
		logger: logger,
		parser: memdoc.NewParser(),
		norm:   normalizer.NewNormalizerFactory().CreateNormalizer(normType),
	}
}

// requestHandler is the main fasthttp request handler
func (s *server) requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "HeadingCommandServer")

	switch string(ctx.Path()) {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/normalize":
		s.handleNormalize(ctx)
	case "/identifier":
		s.handleIdentifier(ctx)
	case "/execute":
		s.handleExecute(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		s.writeJSONError(ctx, "Not found")
	}

	s.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (s *server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleNormalize turns a text into a token
func (s *server) handleNormalize(ctx *fasthttp.RequestCtx) {
	var req NormalizeRequest
	if !s.decodePost(ctx, &req) {
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, NormalizeResponse{Token: s.normalize(req.Text)})
}

// handleIdentifier combines a title and a snippet
func (s *server) handleIdentifier(ctx *fasthttp.RequestCtx) {
	var req IdentifierRequest
	if !s.decodePost(ctx, &req) {
		return
	}
	id := identifier.Combine(s.norm, req.Title, req.Snippet)
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, IdentifierResponse{ID: id})
}

// handleExecute runs the heading command on a fresh document per request
func (s *server) handleExecute(ctx *fasthttp.RequestCtx) {
	var req ExecuteRequest
	if !s.decodePost(ctx, &req) {
		return
	}
	if req.Value == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "value is required")
		return
	}

	doc, err := s.parser.ParseString(req.Markdown)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Invalid markdown: "+err.Error())
		return
	}
	if req.Caret {
		err = doc.SetCaret(req.From)
	} else {
		err = doc.Select(req.From, req.To)
	}
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Invalid selection: "+err.Error())
		return
	}

	lang := req.Language
	if lang == "" {
		lang = s.cfg.Editor.Language
	}
	alerts := &notifier.Recorder{}
	opts := []headingcommand.Option{
		headingcommand.WithTitleHTMLID(s.cfg.Editor.TitleHTMLID),
		headingcommand.WithTitle(req.Title),
		headingcommand.WithLanguage(lang),
		headingcommand.WithModelElements(s.cfg.Editor.ModelElements...),
		headingcommand.WithNotifier(alerts),
		headingcommand.WithLogger(s.logger),
	}
	if s.cfg.Normalizer.Compose {
		opts = append(opts, headingcommand.WithComposition())
	}
	cmd, err := headingcommand.New(doc, opts...)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.writeJSONError(ctx, "Internal server error")
		s.logger.Error("Failed to build heading command", "error", err)
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := cmd.Execute(c, req.Value)
	if errors.Is(err, headingcommand.ErrUnknownElement) {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, err.Error())
		return
	}
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.writeJSONError(ctx, "Internal server error")
		s.logger.Error("Heading command failed", "error", err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, ExecuteResponse{
		HTML:   doc.HTML(),
		State:  cmd.Refresh(),
		Report: report,
		Alerts: alerts.Messages(),
	})
}

func (s *server) normalize(text string) string {
	return s.norm.Normalize(text)
}

// decodePost accepts POST requests with a JSON body
func (s *server) decodePost(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return false
	}
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// writeJSONResponse writes a JSON response to the context
func (s *server) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON response", "error", err)
		s.writeJSONError(ctx, "Internal server error")
		return
	}
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (s *server) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(response)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// createLogger creates and configures a logger. The returned closer releases
// the log file, if any, and must be called after the logger is closed.
func createLogger(cfg config.LoggingConfig) (l.Logger, io.Closer, error) {
	var (
		output io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output, closer = file, file
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  cfg.Format == "json",
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, closer, nil
}
