package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/go_heading_command/internal/ports"
	"github.com/baditaflorin/l"
)

// Options controls how the standard logger is built.
type Options struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	// JSON switches from text to JSON lines.
	JSON bool
	// Async buffers writes in the background.
	Async bool
}

// StdLogger adapts the l.Logger to the ports.Logger interface.
type StdLogger struct {
	logger l.Logger
}

// NewStdLogger creates a new standard logger adapter with default configuration.
func NewStdLogger() (ports.Logger, error) {
	return New(Options{Output: os.Stdout, Async: true})
}

// New creates a standard logger adapter from opts.
func New(opts Options) (ports.Logger, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      opts.Output,
		JsonFormat:  opts.JSON,
		AsyncWrite:  opts.Async,
		BufferSize:  1024 * 1024,      // 1MB buffer
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &StdLogger{logger: logger}, nil
}

// NewDiscardLogger returns a synchronous logger that drops every entry.
// Tests, benchmarks and the warmup tests use it.
func NewDiscardLogger() ports.Logger {
	logger, err := New(Options{Output: io.Discard})
	if err != nil {
		// l only fails on file outputs; io.Discard cannot trigger it.
		panic(err)
	}
	return logger
}

// Debug logs a debug message.
func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(msg, keysAndValues...)
}

// Info logs an info message.
func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

// Error logs an error message.
func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the logger.
func (s *StdLogger) Close() error {
	return s.logger.Close()
}

// FromExisting creates a new StdLogger from an existing l.Logger.
func FromExisting(logger l.Logger) ports.Logger {
	return &StdLogger{logger: logger}
}
