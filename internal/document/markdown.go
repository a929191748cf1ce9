// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// markdown is safe for concurrent use; goldmark parsers keep no per-call state.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// Parse converts markdown source into a flattened block sequence. Only the
// document's direct children become blocks; nested structure is folded into
// the inline content of its top-level block.
func Parse(src []byte) (*Document, error) {
	root := markdown.Parser().Parse(text.NewReader(src))
	if root == nil {
		return nil, fmt.Errorf("parsing markdown: empty syntax tree")
	}

	doc := &Document{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		doc.Blocks = append(doc.Blocks, convertBlock(n, src))
	}
	return doc, nil
}

// ParseFile reads and parses a markdown file.
func ParseFile(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func convertBlock(n ast.Node, src []byte) *Block {
	switch v := n.(type) {
	case *ast.Heading:
		return &Block{Kind: BlockHeading, Level: v.Level, Inlines: convertInlines(v, src)}
	case *ast.Paragraph, *ast.TextBlock:
		return &Block{Kind: BlockParagraph, Inlines: convertInlines(v, src)}
	case *east.Table:
		return convertTable(v, src)
	case *ast.List:
		return &Block{Kind: BlockList, Inlines: flattenContainer(v, src)}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return &Block{Kind: BlockCode, Inlines: []*Inline{Text(linesText(n, src))}}
	case *ast.HTMLBlock:
		body := linesText(n, src)
		if v.HasClosure() {
			body += string(v.ClosureLine.Value(src))
		}
		return &Block{Kind: BlockOther, Inlines: []*Inline{Text(body)}}
	default:
		return &Block{Kind: BlockOther, Inlines: flattenContainer(n, src)}
	}
}

func convertTable(t *east.Table, src []byte) *Block {
	b := &Block{Kind: BlockTable}
	for n := t.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.(type) {
		case *east.TableHeader:
			b.Header = convertCells(n, src)
		case *east.TableRow:
			b.Rows = append(b.Rows, convertCells(n, src))
		}
	}
	return b
}

func convertCells(row ast.Node, src []byte) []Cell {
	var cells []Cell
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); !ok {
			continue
		}
		cells = append(cells, Cell{Inlines: convertInlines(c, src)})
	}
	return cells
}

// flattenContainer folds nested blocks (list items, block quotes) into one
// inline sequence, one line per leaf block.
func flattenContainer(n ast.Node, src []byte) []*Inline {
	var out []*Inline
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			out = append(out, convertInline(c, src))
			continue
		}
		var inner []*Inline
		if c.HasChildren() && c.FirstChild().Type() == ast.TypeInline {
			inner = convertInlines(c, src)
		} else {
			inner = flattenContainer(c, src)
		}
		if len(inner) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, Text("\n"))
		}
		out = append(out, inner...)
	}
	return out
}

func convertInlines(parent ast.Node, src []byte) []*Inline {
	var out []*Inline
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertInline(c, src))
	}
	return out
}

func convertInline(n ast.Node, src []byte) *Inline {
	switch v := n.(type) {
	case *ast.Text:
		s := string(v.Segment.Value(src))
		if v.SoftLineBreak() || v.HardLineBreak() {
			s += "\n"
		}
		return Text(s)
	case *ast.String:
		return Text(string(v.Value))
	case *ast.CodeSpan:
		return &Inline{Kind: InlineCode, Children: convertInlines(v, src)}
	case *ast.Emphasis:
		kind := InlineEmphasis
		if v.Level >= 2 {
			kind = InlineStrong
		}
		return &Inline{Kind: kind, Children: convertInlines(v, src)}
	case *ast.Link:
		return &Inline{Kind: InlineLink, Href: string(v.Destination), Children: convertInlines(v, src)}
	case *ast.AutoLink:
		return Link(string(v.URL(src)), Text(string(v.Label(src))))
	case *ast.Image:
		return &Inline{Kind: InlineImage, Href: string(v.Destination), Children: convertInlines(v, src)}
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(src))
		}
		return Text(b.String())
	default:
		return &Inline{Kind: InlineSpan, Children: convertInlines(n, src)}
	}
}

func linesText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}
