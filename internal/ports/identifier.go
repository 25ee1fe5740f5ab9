package ports

import "context"

// TitleElement is the page element that carries the title.
type TitleElement interface {
	// InnerText is the rendered text of the element.
	InnerText() string
	// Value is the form value of the element, used for input fields.
	Value() string
}

// TitleElementLookup finds host UI elements by their configured id.
type TitleElementLookup interface {
	Lookup(id string) (TitleElement, bool)
}

// TitleReader resolves the page title. ok is false when no title could be found.
type TitleReader interface {
	TitleText() (text string, ok bool)
}

// SnippetReader returns the text of the first item in the current selection.
type SnippetReader interface {
	SnippetText() string
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(message string)
}

// IdentifierGenerator produces the id attribute for a new heading.
type IdentifierGenerator interface {
	Generate(ctx context.Context) (string, error)
}
