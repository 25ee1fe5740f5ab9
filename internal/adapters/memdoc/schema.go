package memdoc

import (
	"github.com/baditaflorin/go_heading_command/internal/core/domain"
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// Element names used by the in-memory document besides the domain ones.
const (
	RootName       = "$root"
	BlockQuoteName = "blockQuote"
	ListItemName   = "listItem"
	ImageName      = "imageBlock"
	CodeBlockName  = "codeBlock"
	RuleName       = "horizontalLine"
)

// Schema is a table of allowed parent/child pairs plus a set of object
// elements.
type Schema struct {
	children map[string]map[string]bool
	objects  map[string]bool
}

// NewSchema creates an empty schema that allows nothing.
func NewSchema() *Schema {
	return &Schema{
		children: make(map[string]map[string]bool),
		objects:  make(map[string]bool),
	}
}

// DefaultSchema mirrors a typical editor setup: headings are allowed at the
// root and in block quotes, list items only hold paragraphs, images, code
// blocks and horizontal lines are objects.
func DefaultSchema() *Schema {
	s := NewSchema()
	text := append([]string{domain.Paragraph}, domain.HeadingElements...)

	s.Allow(RootName, text...)
	s.Allow(RootName, BlockQuoteName, ListItemName, ImageName, CodeBlockName, RuleName)
	s.Allow(BlockQuoteName, text...)
	s.Allow(ListItemName, domain.Paragraph)
	s.RegisterObject(ImageName, CodeBlockName, RuleName)
	return s
}

// Allow lets parent contain each of children.
func (s *Schema) Allow(parent string, children ...string) {
	set, ok := s.children[parent]
	if !ok {
		set = make(map[string]bool)
		s.children[parent] = set
	}
	for _, c := range children {
		set[c] = true
	}
}

// RegisterObject marks names as object elements.
func (s *Schema) RegisterObject(names ...string) {
	for _, n := range names {
		s.objects[n] = true
	}
}

// CheckChild implements ports.Schema. A nil parent accepts nothing.
func (s *Schema) CheckChild(parent ports.Element, child string) bool {
	if parent == nil {
		return false
	}
	return s.children[parent.Name()][child]
}

// IsObject implements ports.Schema.
func (s *Schema) IsObject(e ports.Element) bool {
	return e != nil && s.objects[e.Name()]
}

var _ ports.Schema = (*Schema)(nil)
