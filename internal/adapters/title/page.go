package title

import "github.com/baditaflorin/go_heading_command/internal/ports"

// Field is a static title element, e.g. an input whose text and value are
// known up front.
type Field struct {
	Text      string `json:"text"`
	FormValue string `json:"value"`
}

// InnerText implements ports.TitleElement.
func (f Field) InnerText() string { return f.Text }

// Value implements ports.TitleElement.
func (f Field) Value() string { return f.FormValue }

// Page maps element ids to title elements.
type Page map[string]ports.TitleElement

// Lookup implements ports.TitleElementLookup.
func (p Page) Lookup(id string) (ports.TitleElement, bool) {
	el, ok := p[id]
	return el, ok
}

// Static returns a page that only holds a title input under id.
func Static(id, text string) Page {
	return Page{id: Field{FormValue: text}}
}
