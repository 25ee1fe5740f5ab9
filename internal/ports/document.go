package ports

// Element is a node of the host document model.
type Element interface {
	// Name is the model element name, e.g. "paragraph" or "heading2".
	Name() string
	// Parent returns nil for the document root.
	Parent() Element
	Attribute(key string) (string, bool)
}

// Item is a piece of content found inside a selection range.
type Item interface {
	// Data is the text carried by the item. Non-text items return "".
	Data() string
}

// Range is a contiguous part of the selection.
type Range interface {
	Items() []Item
}

// Selection is the host-owned cursor or highlighted region.
type Selection interface {
	// SelectedBlocks returns the selected blocks in document order.
	SelectedBlocks() []Element
	FirstRange() (Range, bool)
}

// Schema holds the host's nesting rules.
type Schema interface {
	CheckChild(parent Element, child string) bool
	IsObject(e Element) bool
}

// Writer mutates the model inside a Change callback.
type Writer interface {
	Rename(e Element, name string) error
	SetAttribute(key, value string, e Element) error
}

// Model is the host document model the command operates on.
type Model interface {
	Schema() Schema
	Selection() Selection
	// Change runs fn as one atomic transaction. If fn returns an error no
	// mutation made through the writer is kept.
	Change(fn func(w Writer) error) error
}
