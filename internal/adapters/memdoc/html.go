package memdoc

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/baditaflorin/go_heading_command/internal/core/domain"
)

// RenderHTML writes the document as HTML. Headings carry their id attribute
// so the generated identifiers can be used as anchors.
func (d *Document) RenderHTML(w io.Writer) error {
	var buf bytes.Buffer
	inList := false
	for _, b := range d.root.children {
		if b.name == ListItemName && !inList {
			buf.WriteString("<ul>\n")
			inList = true
		} else if b.name != ListItemName && inList {
			buf.WriteString("</ul>\n")
			inList = false
		}
		renderBlock(&buf, b)
	}
	if inList {
		buf.WriteString("</ul>\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// HTML returns the rendered document.
func (d *Document) HTML() string {
	var sb strings.Builder
	_ = d.RenderHTML(&sb)
	return sb.String()
}

func renderBlock(buf *bytes.Buffer, b *Block) {
	switch {
	case b.name == domain.Paragraph:
		fmt.Fprintf(buf, "<p%s>%s</p>\n", attrString(b), html.EscapeString(b.text))
	case domain.IsHeading(b.name):
		tag := "h" + strings.TrimPrefix(b.name, "heading")
		fmt.Fprintf(buf, "<%s%s>%s</%s>\n", tag, attrString(b), html.EscapeString(b.text), tag)
	case b.name == ImageName:
		fmt.Fprintf(buf, "<img%s>\n", attrString(b))
	case b.name == CodeBlockName:
		fmt.Fprintf(buf, "<pre><code>%s</code></pre>\n", html.EscapeString(b.text))
	case b.name == RuleName:
		buf.WriteString("<hr>\n")
	case b.name == BlockQuoteName:
		buf.WriteString("<blockquote>\n")
		for _, c := range b.children {
			renderBlock(buf, c)
		}
		buf.WriteString("</blockquote>\n")
	case b.name == ListItemName:
		buf.WriteString("<li>\n")
		for _, c := range b.children {
			renderBlock(buf, c)
		}
		buf.WriteString("</li>\n")
	default:
		fmt.Fprintf(buf, "<div data-element=%q%s>%s</div>\n", b.name, attrString(b), html.EscapeString(b.text))
	}
}

// attrString renders the block attributes sorted by name, id first.
func attrString(b *Block) string {
	if len(b.attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(b.attrs))
	for k := range b.attrs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == domain.IDAttribute || keys[j] == domain.IDAttribute {
			return keys[i] == domain.IDAttribute
		}
		return keys[i] < keys[j]
	})
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=\"%s\"", k, html.EscapeString(b.attrs[k]))
	}
	return sb.String()
}
