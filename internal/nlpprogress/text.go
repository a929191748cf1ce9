// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlpprogress

import (
	"strings"

	"github.com/pdiddy/sota-extractor/internal/document"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// Mode selects how anchors are rendered into extracted text.
type Mode int

const (
	// KeepLinks re-renders anchors inline as [label](url).
	KeepLinks Mode = iota

	// StripLinks concatenates anchor labels with no markup.
	StripLinks
)

// Text is flattened inline content plus every anchor encountered, in
// depth-first pre-order.
type Text struct {
	Text  string
	Links []types.Link
}

// ExtractText flattens inline nodes in document order.
func ExtractText(mode Mode, nodes ...*document.Inline) Text {
	var b strings.Builder
	var links []types.Link
	for _, n := range nodes {
		unwind(&b, &links, n, mode)
	}
	return Text{Text: b.String(), Links: links}
}

// ExtractBlocks flattens the inline content of each block and joins the
// per-block text with newlines.
func ExtractBlocks(mode Mode, blocks ...*document.Block) Text {
	var out Text
	parts := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		t := ExtractText(mode, blk.Inlines...)
		parts = append(parts, t.Text)
		out.Links = append(out.Links, t.Links...)
	}
	out.Text = strings.Join(parts, "\n")
	return out
}

// ExtractCell flattens one table cell.
func ExtractCell(mode Mode, c document.Cell) Text {
	return ExtractText(mode, c.Inlines...)
}

func unwind(b *strings.Builder, links *[]types.Link, n *document.Inline, mode Mode) {
	if n == nil {
		return
	}
	switch n.Kind {
	case document.InlineText:
		b.WriteString(n.Text)
	case document.InlineImage:
		// Images carry no text of their own.
	case document.InlineLink:
		// Reserve the anchor's slot so it precedes any nested anchors.
		idx := len(*links)
		*links = append(*links, types.Link{URL: n.Href})

		var label strings.Builder
		for _, c := range n.Children {
			unwind(&label, links, c, mode)
		}
		(*links)[idx].Title = plain(n.Children)

		if mode == KeepLinks {
			b.WriteString("[")
			b.WriteString(label.String())
			b.WriteString("](")
			b.WriteString(n.Href)
			b.WriteString(")")
		} else {
			b.WriteString(label.String())
		}
	default:
		for _, c := range n.Children {
			unwind(b, links, c, mode)
		}
	}
}

// plain returns the concatenated text of nodes with all markup dropped.
func plain(nodes []*document.Inline) string {
	var b strings.Builder
	var walk func([]*document.Inline)
	walk = func(ns []*document.Inline) {
		for _, n := range ns {
			if n == nil {
				continue
			}
			if n.Kind == document.InlineText {
				b.WriteString(n.Text)
				continue
			}
			if n.Kind == document.InlineImage {
				continue
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return b.String()
}
