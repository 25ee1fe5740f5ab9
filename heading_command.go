// heading_command.go
// Package headingcommand implements the editor command that turns selected
// blocks into headings (heading1 to heading6) or back into paragraphs, and
// gives every new heading an anchor id derived from the page title and the
// selected text:
//
//	id = Normalize(title) + "_" + Normalize(snippet)
//
// The command works against a host document model described by the Model,
// Schema and Selection interfaces. It uses the functional options pattern to
// configure the title lookup, alert language, logging and normalization.
package headingcommand

import (
	"context"

	"github.com/baditaflorin/go_heading_command/internal/adapters/logger"
	"github.com/baditaflorin/go_heading_command/internal/adapters/normalizer"
	"github.com/baditaflorin/go_heading_command/internal/adapters/notifier"
	"github.com/baditaflorin/go_heading_command/internal/adapters/title"
	"github.com/baditaflorin/go_heading_command/internal/core/domain"
	"github.com/baditaflorin/go_heading_command/internal/core/heading"
	"github.com/baditaflorin/go_heading_command/internal/core/identifier"
	"github.com/baditaflorin/go_heading_command/internal/ports"
	"github.com/baditaflorin/l"
)

// Host model types.
type (
	Model        = ports.Model
	Schema       = ports.Schema
	Selection    = ports.Selection
	Range        = ports.Range
	Item         = ports.Item
	Element      = ports.Element
	Writer       = ports.Writer
	TitleElement = ports.TitleElement
	TitleLookup  = ports.TitleElementLookup
	Notifier     = ports.Notifier
	Normalizer   = ports.Normalizer
)

// Command results.
type (
	State  = domain.State
	Report = domain.Report
	Change = domain.Change
)

// Errors returned by New and Execute.
var (
	ErrUnknownElement = domain.ErrUnknownElement
	ErrNoModel        = domain.ErrNoModel
)

// Default configuration values.
const (
	DefaultTitleHTMLID = "#title"
	DefaultLanguage    = "de"
)

// HeadingCommand is the heading command bound to one document model.
type HeadingCommand struct {
	command   *heading.Command
	generator *identifier.Generator
	logger    ports.Logger
}

// Option defines a functional option for configuring the command.
type Option func(*commandConfig)

type commandConfig struct {
	TitleHTMLID   string
	TitleLookup   ports.TitleElementLookup
	StaticTitle   *string
	Language      string
	ModelElements []string
	Logger        ports.Logger
	Normalizer    ports.Normalizer
	Notifier      ports.Notifier
	Alert         notifier.AlertFunc
}

// WithTitleHTMLID sets the id the title element is registered under.
func WithTitleHTMLID(id string) Option {
	return func(cfg *commandConfig) {
		cfg.TitleHTMLID = id
	}
}

// WithTitleLookup sets where title elements are looked up.
func WithTitleLookup(lookup TitleLookup) Option {
	return func(cfg *commandConfig) {
		cfg.TitleLookup = lookup
	}
}

// WithTitle uses a fixed page title, as if typed into the title input.
func WithTitle(text string) Option {
	return func(cfg *commandConfig) {
		cfg.StaticTitle = &text
	}
}

// WithLanguage sets the language of user-facing alerts.
func WithLanguage(lang string) Option {
	return func(cfg *commandConfig) {
		cfg.Language = lang
	}
}

// WithModelElements sets the element names the command supports.
func WithModelElements(elements ...string) Option {
	return func(cfg *commandConfig) {
		cfg.ModelElements = elements
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *commandConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(cfg *commandConfig) {
		cfg.Normalizer = n
	}
}

// WithComposition NFC-composes text before normalizing it.
func WithComposition() Option {
	return func(cfg *commandConfig) {
		cfg.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(normalizer.ComposingNormalizerType)
	}
}

// WithNotifier sets where user alerts go.
func WithNotifier(n Notifier) Option {
	return func(cfg *commandConfig) {
		cfg.Notifier = n
	}
}

// WithAlert shows user alerts through a blocking host callback.
func WithAlert(alert func(message string)) Option {
	return func(cfg *commandConfig) {
		cfg.Alert = alert
	}
}

// New creates the heading command for model.
// If no logger is provided, a default logger is created.
func New(model Model, opts ...Option) (*HeadingCommand, error) {
	if model == nil {
		return nil, ErrNoModel
	}

	config := &commandConfig{
		TitleHTMLID:   DefaultTitleHTMLID,
		Language:      DefaultLanguage,
		ModelElements: domain.DefaultModelElements,
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = createDefaultLogger()
		if err != nil {
			return nil, err
		}
	}
	if config.StaticTitle != nil {
		config.TitleLookup = title.Static(config.TitleHTMLID, *config.StaticTitle)
	}
	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewHeadingNormalizer()
	}
	if config.Notifier == nil {
		if config.Alert != nil {
			config.Notifier = notifier.NewAlertNotifier(config.Alert, config.Logger)
		} else {
			config.Notifier = notifier.NewLogNotifier(config.Logger)
		}
	}

	messages, err := notifier.NewMessages()
	if err != nil {
		return nil, err
	}

	generator, err := identifier.NewGenerator(identifier.Config{
		Normalizer:          config.Normalizer,
		Titles:              title.NewFallbackReader(config.TitleLookup, config.TitleHTMLID, config.Logger),
		Snippets:            identifier.ModelSnippet{Model: model},
		Notifier:            config.Notifier,
		MissingTitleMessage: messages.MissingTitle(config.Language),
		Logger:              config.Logger,
	})
	if err != nil {
		return nil, err
	}

	command, err := heading.NewCommand(model, config.ModelElements, generator, config.Logger)
	if err != nil {
		return nil, err
	}

	return &HeadingCommand{
		command:   command,
		generator: generator,
		logger:    config.Logger,
	}, nil
}

// Refresh recomputes whether the command is enabled and which supported
// element the selection starts in.
func (h *HeadingCommand) Refresh() State {
	return h.command.Refresh()
}

// Execute converts the selected blocks into value, e.g. "heading2".
func (h *HeadingCommand) Execute(ctx context.Context, value string) (Report, error) {
	return h.command.Execute(ctx, domain.Options{Value: value})
}

// GenerateToken returns the identifier a heading created now would get.
func (h *HeadingCommand) GenerateToken(ctx context.Context) (string, error) {
	return h.generator.Generate(ctx)
}

// ModelElements returns the supported element names.
func (h *HeadingCommand) ModelElements() []string {
	return h.command.ModelElements()
}

// Close releases the logger.
func (h *HeadingCommand) Close() error {
	return h.logger.Close()
}

var defaultNormalizer = normalizer.NewHeadingNormalizer()

// Normalize turns text into an identifier token with the default normalizer.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

// GenerateIdentifier combines a page title and a snippet into a heading id.
func GenerateIdentifier(pageTitle, snippet string) string {
	return identifier.Combine(defaultNormalizer, pageTitle, snippet)
}
