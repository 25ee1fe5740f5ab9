package domain

import "errors"

// Model element names handled by the heading command.
const (
	Paragraph = "paragraph"
	Heading1  = "heading1"
	Heading2  = "heading2"
	Heading3  = "heading3"
	Heading4  = "heading4"
	Heading5  = "heading5"
	Heading6  = "heading6"
)

// IDAttribute is the attribute that receives the generated identifier.
const IDAttribute = "id"

// HeadingElements lists the six heading levels in order.
var HeadingElements = []string{Heading1, Heading2, Heading3, Heading4, Heading5, Heading6}

// DefaultModelElements is what the editor registers the command with.
var DefaultModelElements = append([]string{Paragraph}, HeadingElements...)

var (
	// ErrUnknownElement is returned when a command is executed with a value
	// it was not registered for.
	ErrUnknownElement = errors.New("unknown model element")
	// ErrNoModel is returned when a command is built without a document model.
	ErrNoModel = errors.New("document model is required")
)

// IsHeading reports whether name is one of the six heading levels.
func IsHeading(name string) bool {
	for _, h := range HeadingElements {
		if h == name {
			return true
		}
	}
	return false
}

// Options are the arguments of a command execution.
type Options struct {
	// Value is the model element every selected block is converted to.
	Value string `json:"value"`
}

// State is the result of a command refresh.
type State struct {
	// Value is the name of the first selected block when the command supports
	// it, "" otherwise.
	Value     string `json:"value" yaml:"value"`
	IsEnabled bool   `json:"is_enabled" yaml:"is_enabled"`
}

// Change describes one renamed block.
type Change struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Report holds the outcome of a command execution.
type Report struct {
	Value   string   `json:"value" yaml:"value"`
	Changes []Change `json:"changes" yaml:"changes"`
	// Unchanged counts blocks that already were of the requested type.
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	// Rejected counts blocks the schema did not allow to be converted.
	Rejected int `json:"rejected" yaml:"rejected"`
}
