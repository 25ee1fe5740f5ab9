package identifier

import (
	"context"
	"errors"

	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// Separator joins the title token and the snippet token.
const Separator = "_"

// Config holds the collaborators of a Generator.
type Config struct {
	Normalizer ports.Normalizer
	Titles     ports.TitleReader
	Snippets   ports.SnippetReader
	Notifier   ports.Notifier
	// MissingTitleMessage is shown through Notifier when no title is found.
	MissingTitleMessage string
	Logger              ports.Logger
}

// Validate checks that every collaborator is present.
func (c Config) Validate() error {
	var errs []error
	if c.Normalizer == nil {
		errs = append(errs, errors.New("normalizer is required"))
	}
	if c.Titles == nil {
		errs = append(errs, errors.New("title reader is required"))
	}
	if c.Snippets == nil {
		errs = append(errs, errors.New("snippet reader is required"))
	}
	if c.Notifier == nil {
		errs = append(errs, errors.New("notifier is required"))
	}
	if c.Logger == nil {
		errs = append(errs, errors.New("logger is required"))
	}
	return errors.Join(errs...)
}

// Generator derives heading identifiers of the form <title>_<snippet>.
//
// Identifiers are not unique: two headings with the same first words on the
// same page get the same id. Callers that need uniqueness must enforce it.
type Generator struct {
	config Config
}

// NewGenerator creates a generator from config.
func NewGenerator(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Generator{config: config}, nil
}

// Generate reads the page title and the selection snippet and combines their
// tokens. A missing title is reported to the user once and generation goes on
// with an empty title token.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title, ok := g.config.Titles.TitleText()
	if !ok {
		g.config.Notifier.Notify(g.config.MissingTitleMessage)
		title = ""
	}
	snippet := g.config.Snippets.SnippetText()

	id := g.GenerateFrom(title, snippet)
	g.config.Logger.Debug("Generated heading identifier",
		"title", title,
		"snippet", snippet,
		"id", id,
	)
	return id, nil
}

// GenerateFrom combines already known title and snippet texts.
func (g *Generator) GenerateFrom(title, snippet string) string {
	return Combine(g.config.Normalizer, title, snippet)
}

// Combine is the pure identifier derivation.
func Combine(n ports.Normalizer, title, snippet string) string {
	return n.Normalize(title) + Separator + n.Normalize(snippet)
}

// SelectionSnippet reads the snippet from a host selection: the data of the
// first item in the first range. No range or no items yields "".
type SelectionSnippet struct {
	Selection ports.Selection
}

// SnippetText implements ports.SnippetReader.
func (s SelectionSnippet) SnippetText() string {
	if s.Selection == nil {
		return ""
	}
	rng, ok := s.Selection.FirstRange()
	if !ok || rng == nil {
		return ""
	}
	items := rng.Items()
	if len(items) == 0 || items[0] == nil {
		return ""
	}
	return items[0].Data()
}

// ModelSnippet reads the snippet from the model's current selection on every
// call, for hosts that replace their selection object.
type ModelSnippet struct {
	Model ports.Model
}

// SnippetText implements ports.SnippetReader.
func (m ModelSnippet) SnippetText() string {
	if m.Model == nil {
		return ""
	}
	return SelectionSnippet{Selection: m.Model.Selection()}.SnippetText()
}

var _ ports.IdentifierGenerator = (*Generator)(nil)
