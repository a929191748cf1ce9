// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document defines the flattened block model the corpus parser
// consumes: a sequence of headings, paragraphs, tables, and other blocks,
// each carrying a tree of inline nodes. Parse builds it from markdown with
// goldmark; the constructors build it directly.
package document

// BlockKind classifies a top-level block.
type BlockKind int

const (
	BlockOther BlockKind = iota
	BlockHeading
	BlockParagraph
	BlockTable
	BlockList
	BlockCode
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockTable:
		return "table"
	case BlockList:
		return "list"
	case BlockCode:
		return "code"
	default:
		return "other"
	}
}

// InlineKind classifies an inline node.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineStrong
	InlineEmphasis
	InlineCode
	InlineLink
	InlineImage
	InlineSpan
)

// Document is an ordered block sequence.
type Document struct {
	Blocks []*Block
}

// Block is one top-level element of a document.
type Block struct {
	Kind BlockKind

	// Level is the heading level (1-6); zero for other kinds.
	Level int

	// Inlines is the inline content of headings, paragraphs, lists (one
	// line per item), code and other blocks.
	Inlines []*Inline

	// Header and Rows hold table cells; empty for other kinds.
	Header []Cell
	Rows   [][]Cell
}

// Cell is one table cell.
type Cell struct {
	Inlines []*Inline
}

// Inline is a node of inline content. Text nodes carry Text; link nodes
// carry Href; container nodes carry Children.
type Inline struct {
	Kind     InlineKind
	Text     string
	Href     string
	Children []*Inline
}

// IsHeading reports whether b is a heading of any level.
func (b *Block) IsHeading() bool { return b.Kind == BlockHeading }

// Text returns a text node.
func Text(s string) *Inline {
	return &Inline{Kind: InlineText, Text: s}
}

// Strong returns a bold span.
func Strong(children ...*Inline) *Inline {
	return &Inline{Kind: InlineStrong, Children: children}
}

// Emphasis returns an italic span.
func Emphasis(children ...*Inline) *Inline {
	return &Inline{Kind: InlineEmphasis, Children: children}
}

// Link returns an anchor pointing at href.
func Link(href string, children ...*Inline) *Inline {
	return &Inline{Kind: InlineLink, Href: href, Children: children}
}

// Heading returns a heading block with plain text content.
func Heading(level int, text string) *Block {
	return &Block{Kind: BlockHeading, Level: level, Inlines: []*Inline{Text(text)}}
}

// Paragraph returns a paragraph block.
func Paragraph(inlines ...*Inline) *Block {
	return &Block{Kind: BlockParagraph, Inlines: inlines}
}

// Table returns a table block from header and row cells.
func Table(header []Cell, rows ...[]Cell) *Block {
	return &Block{Kind: BlockTable, Header: header, Rows: rows}
}

// TextCells returns one plain-text cell per string.
func TextCells(texts ...string) []Cell {
	cells := make([]Cell, len(texts))
	for i, t := range texts {
		cells[i] = Cell{Inlines: []*Inline{Text(t)}}
	}
	return cells
}

// TextTable returns a table whose cells are all plain text.
func TextTable(header []string, rows ...[]string) *Block {
	b := &Block{Kind: BlockTable, Header: TextCells(header...)}
	for _, r := range rows {
		b.Rows = append(b.Rows, TextCells(r...))
	}
	return b
}
