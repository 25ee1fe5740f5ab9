package memdoc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/baditaflorin/go_heading_command/internal/ports"
)

var (
	// ErrForeignElement is returned when a writer is handed an element that
	// does not belong to the document.
	ErrForeignElement = errors.New("element does not belong to this document")
	// ErrOutOfRange is returned for selections outside the block list.
	ErrOutOfRange = errors.New("selection out of range")
)

// Block is an element of the in-memory document.
type Block struct {
	name     string
	text     string
	attrs    map[string]string
	parent   *Block
	children []*Block
	doc      *Document

	container bool
}

// Name implements ports.Element.
func (b *Block) Name() string { return b.name }

// Parent implements ports.Element.
func (b *Block) Parent() ports.Element {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

// Attribute implements ports.Element.
func (b *Block) Attribute(key string) (string, bool) {
	v, ok := b.attrs[key]
	return v, ok
}

// Attributes returns a copy of all attributes.
func (b *Block) Attributes() map[string]string {
	out := make(map[string]string, len(b.attrs))
	for k, v := range b.attrs {
		out[k] = v
	}
	return out
}

// Text is the plain text content of the block.
func (b *Block) Text() string { return b.text }

// Children returns the direct children of a container.
func (b *Block) Children() []*Block { return b.children }

// Document is a flat, in-memory document model: a root holding text blocks,
// objects and single-level containers (block quotes, list items).
//
// A Document is meant to be driven by one goroutine at a time, like an
// editor model. Change and Select are serialized; reads are not.
type Document struct {
	mu     sync.Mutex
	root   *Block
	blocks []*Block
	schema *Schema
	sel    selection
}

// New creates an empty document. A nil schema means DefaultSchema.
func New(schema *Schema) *Document {
	if schema == nil {
		schema = DefaultSchema()
	}
	d := &Document{schema: schema}
	d.root = &Block{name: RootName, doc: d}
	d.sel.doc = d
	return d
}

// Root returns the document root.
func (d *Document) Root() *Block { return d.root }

// Blocks returns every selectable block in document order. Containers are
// not selectable; their children are.
func (d *Document) Blocks() []*Block {
	return append([]*Block(nil), d.blocks...)
}

// AppendContainer adds a container element to the root.
func (d *Document) AppendContainer(name string) *Block {
	c := &Block{name: name, parent: d.root, doc: d, container: true}
	d.root.children = append(d.root.children, c)
	return c
}

// AppendBlock adds a selectable block to parent, or to the root when parent
// is nil.
func (d *Document) AppendBlock(parent *Block, name, text string, attrs map[string]string) *Block {
	if parent == nil {
		parent = d.root
	}
	b := &Block{name: name, text: text, attrs: make(map[string]string), parent: parent, doc: d}
	for k, v := range attrs {
		b.attrs[k] = v
	}
	parent.children = append(parent.children, b)
	if parent == d.root {
		d.blocks = append(d.blocks, b)
	} else {
		// The container may already be followed by other root blocks.
		d.reindex()
	}
	return b
}

// reindex rebuilds the selectable block list in tree order.
func (d *Document) reindex() {
	d.blocks = d.blocks[:0]
	for _, b := range d.root.children {
		if !b.container {
			d.blocks = append(d.blocks, b)
			continue
		}
		d.blocks = append(d.blocks, b.children...)
	}
}

// Schema implements ports.Model.
func (d *Document) Schema() ports.Schema { return d.schema }

// Selection implements ports.Model.
func (d *Document) Selection() ports.Selection { return &d.sel }

// Select selects the blocks from..to (inclusive, zero based).
func (d *Document) Select(from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if from < 0 || to < from || to >= len(d.blocks) {
		return fmt.Errorf("%w: %d..%d of %d blocks", ErrOutOfRange, from, to, len(d.blocks))
	}
	d.sel = selection{doc: d, from: from, to: to, set: true}
	return nil
}

// SetCaret places a collapsed selection inside block i. The block counts as
// selected but the selection range holds no items.
func (d *Document) SetCaret(i int) error {
	if err := d.Select(i, i); err != nil {
		return err
	}
	d.mu.Lock()
	d.sel.collapsed = true
	d.mu.Unlock()
	return nil
}

// ClearSelection removes the selection.
func (d *Document) ClearSelection() {
	d.mu.Lock()
	d.sel = selection{doc: d}
	d.mu.Unlock()
}

// Change implements ports.Model. Mutations are journaled and rolled back in
// reverse order when fn fails.
func (d *Document) Change(fn func(w ports.Writer) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := &writer{doc: d}
	if err := fn(w); err != nil {
		for i := len(w.journal) - 1; i >= 0; i-- {
			w.journal[i]()
		}
		return err
	}
	return nil
}

type writer struct {
	doc     *Document
	journal []func()
}

func (w *writer) block(e ports.Element) (*Block, error) {
	b, ok := e.(*Block)
	if !ok || b == nil || b.doc != w.doc {
		return nil, ErrForeignElement
	}
	return b, nil
}

func (w *writer) Rename(e ports.Element, name string) error {
	b, err := w.block(e)
	if err != nil {
		return err
	}
	old := b.name
	b.name = name
	w.journal = append(w.journal, func() { b.name = old })
	return nil
}

func (w *writer) SetAttribute(key, value string, e ports.Element) error {
	b, err := w.block(e)
	if err != nil {
		return err
	}
	prev, had := b.attrs[key]
	b.attrs[key] = value
	w.journal = append(w.journal, func() {
		if had {
			b.attrs[key] = prev
		} else {
			delete(b.attrs, key)
		}
	})
	return nil
}

type selection struct {
	doc       *Document
	from, to  int
	set       bool
	collapsed bool
}

func (s *selection) SelectedBlocks() []ports.Element {
	if !s.set {
		return nil
	}
	out := make([]ports.Element, 0, s.to-s.from+1)
	for _, b := range s.doc.blocks[s.from : s.to+1] {
		out = append(out, b)
	}
	return out
}

func (s *selection) FirstRange() (ports.Range, bool) {
	if !s.set {
		return nil, false
	}
	if s.collapsed {
		return itemRange(nil), true
	}
	var items itemRange
	for _, b := range s.doc.blocks[s.from : s.to+1] {
		switch {
		case s.doc.schema.IsObject(b):
			items = append(items, elementItem{})
		case b.text != "":
			items = append(items, textItem(b.text))
		}
	}
	return items, true
}

type itemRange []ports.Item

func (r itemRange) Items() []ports.Item { return r }

type textItem string

func (t textItem) Data() string { return string(t) }

// elementItem stands for a non-text item; it carries no data.
type elementItem struct{}

func (elementItem) Data() string { return "" }

var (
	_ ports.Model     = (*Document)(nil)
	_ ports.Selection = (*selection)(nil)
	_ ports.Writer    = (*writer)(nil)
)
