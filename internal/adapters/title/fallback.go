package title

import (
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// step is a state of the title lookup.
type step int

const (
	tryDisplay step = iota
	tryValue
	missing
)

func (s step) String() string {
	switch s {
	case tryDisplay:
		return "display"
	case tryValue:
		return "value"
	default:
		return "missing"
	}
}

// FallbackReader resolves the page title from a host element: its display
// text first, then its form value. An element that cannot be found counts as
// an element with neither.
type FallbackReader struct {
	lookup ports.TitleElementLookup
	id     string
	logger ports.Logger
}

// NewFallbackReader creates a reader for the element registered under id.
func NewFallbackReader(lookup ports.TitleElementLookup, id string, logger ports.Logger) *FallbackReader {
	return &FallbackReader{lookup: lookup, id: id, logger: logger}
}

// TitleText walks TryDisplay -> TryValue -> Missing and stops at the first
// non-empty text. Text is returned exactly as read; only the empty string
// counts as missing.
func (r *FallbackReader) TitleText() (string, bool) {
	var el ports.TitleElement
	if r.lookup != nil {
		el, _ = r.lookup.Lookup(r.id)
	}

	for s := tryDisplay; ; s++ {
		var text string
		switch s {
		case tryDisplay:
			if el != nil {
				text = el.InnerText()
			}
		case tryValue:
			if el != nil {
				text = el.Value()
			}
		case missing:
			r.logger.Warn("Page title is missing", "title_id", r.id)
			return "", false
		}
		if text != "" {
			r.logger.Debug("Resolved page title", "title_id", r.id, "source", s.String())
			return text, true
		}
	}
}
