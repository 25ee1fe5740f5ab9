package memdoc

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/baditaflorin/go_heading_command/internal/core/domain"
)

// Parser loads markdown into an in-memory document.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser. Heading attributes such as {#intro} are kept
// as the block's id.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAttribute(),
		),
	)
	return &Parser{md: md}
}

// Parse builds a document from markdown source. A nil schema means
// DefaultSchema.
func (p *Parser) Parse(source []byte, schema *Schema) (*Document, error) {
	root := p.md.Parser().Parse(text.NewReader(source))
	doc := New(schema)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := addNode(doc, nil, n, source); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ParseString is a convenience method for parsing string input.
func (p *Parser) ParseString(source string) (*Document, error) {
	return p.Parse([]byte(source), nil)
}

func addNode(doc *Document, parent *Block, n ast.Node, source []byte) error {
	switch node := n.(type) {
	case *ast.Heading:
		if node.Level < 1 || node.Level > len(domain.HeadingElements) {
			return fmt.Errorf("unsupported heading level %d", node.Level)
		}
		attrs := map[string]string{}
		if id, ok := node.AttributeString(domain.IDAttribute); ok {
			if b, isBytes := id.([]byte); isBytes {
				attrs[domain.IDAttribute] = string(b)
			}
		}
		doc.AppendBlock(parent, domain.HeadingElements[node.Level-1], inlineText(node, source), attrs)

	case *ast.Paragraph, *ast.TextBlock:
		if img, ok := soleImage(node); ok {
			doc.AppendBlock(parent, ImageName, "", map[string]string{
				"src": string(img.Destination),
				"alt": inlineText(img, source),
			})
			return nil
		}
		doc.AppendBlock(parent, domain.Paragraph, inlineText(node, source), nil)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		doc.AppendBlock(parent, CodeBlockName, rawLines(node, source), nil)

	case *ast.ThematicBreak:
		doc.AppendBlock(parent, RuleName, "", nil)

	case *ast.Blockquote:
		if parent != nil {
			return addChildren(doc, parent, node, source)
		}
		return addChildren(doc, doc.AppendContainer(BlockQuoteName), node, source)

	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			container := parent
			if container == nil {
				container = doc.AppendContainer(ListItemName)
			}
			if err := addChildren(doc, container, item, source); err != nil {
				return err
			}
		}
	}
	return nil
}

func addChildren(doc *Document, parent *Block, n ast.Node, source []byte) error {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := addNode(doc, parent, c, source); err != nil {
			return err
		}
	}
	return nil
}

func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}

// inlineText flattens the inline children of n into plain text.
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func rawLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}
