// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlpprogress

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/sota-extractor/internal/document"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// maxSectionLevel is the deepest heading level that opens a section.
// Deeper headings stay inside the enclosing section's body.
const maxSectionLevel = 5

const tableOfContents = "Table of content"

// RawSection is a heading and the blocks up to the next sectioning heading.
type RawSection struct {
	Heading *document.Block
	Body    []*document.Block
}

// SplitSections cuts blocks at every heading of level 1-5. Blocks before
// the first heading belong to no section.
func SplitSections(blocks []*document.Block) []RawSection {
	var sections []RawSection
	for _, blk := range blocks {
		if blk.IsHeading() && blk.Level <= maxSectionLevel {
			sections = append(sections, RawSection{Heading: blk})
			continue
		}
		if len(sections) == 0 {
			continue
		}
		cur := &sections[len(sections)-1]
		cur.Body = append(cur.Body, blk)
	}
	return sections
}

// Section is the classified form of a RawSection: one of TaskHeader,
// SubtaskHeader, DatasetHeader or Other.
type Section interface {
	section()
}

// TaskHeader opens a new top-level task.
type TaskHeader struct {
	Name        string
	Description string
}

// SubtaskHeader opens a subtask under the current task.
type SubtaskHeader struct {
	Name        string
	Description string
}

// Layout distinguishes dataset sections by how many tables they hold.
type Layout int

const (
	// SingleTable sections carry at most one table, parsed as the
	// dataset's own leaderboard.
	SingleTable Layout = iota

	// MultiTable sections pair each table with a bold label paragraph,
	// one subdataset per pair.
	MultiTable
)

func (l Layout) String() string {
	if l == MultiTable {
		return "multi_table"
	}
	return "single_table"
}

// DatasetHeader opens a dataset under the current subtask or task.
type DatasetHeader struct {
	Name        string
	Description string
	Links       []types.Link
	Layout      Layout

	// Sota is the dataset's own leaderboard (SingleTable only).
	Sota types.Sota

	// Subdatasets holds one entry per paired table (MultiTable only).
	Subdatasets []*types.Dataset

	// TableErrors records tables that failed to parse; the affected
	// dataset or subdataset keeps an empty leaderboard.
	TableErrors []TableError

	// Unpaired counts MultiTable tables with no bold label paragraph.
	Unpaired int
}

// TableError ties a table parse failure to the dataset it belonged to.
type TableError struct {
	Dataset string
	Err     error
}

// Other is any section that does not affect the hierarchy.
type Other struct {
	Heading string
	Level   int
}

func (TaskHeader) section()    {}
func (SubtaskHeader) section() {}
func (DatasetHeader) section() {}
func (Other) section()         {}

// Classifier turns raw sections into typed sections.
type Classifier struct {
	ModelParser ModelParser

	// TitleCase title-cases task and subtask names.
	TitleCase bool
}

// Classify inspects the heading level, text and table count of raw.
func (c Classifier) Classify(raw RawSection) Section {
	heading := ExtractText(StripLinks, raw.Heading.Inlines...).Text
	level := raw.Heading.Level
	if strings.TrimSpace(heading) == "" {
		return Other{Heading: heading, Level: level}
	}

	switch {
	case level == 1:
		return TaskHeader{Name: c.taskName(heading), Description: paragraphText(raw.Body).Text}
	case level == 2:
		return SubtaskHeader{Name: c.taskName(heading), Description: paragraphText(raw.Body).Text}
	case level == 3 && !strings.Contains(heading, tableOfContents):
		return c.dataset(heading, raw)
	default:
		return Other{Heading: heading, Level: level}
	}
}

func (c Classifier) taskName(heading string) string {
	name := strings.TrimSpace(heading)
	if c.TitleCase {
		name = cases.Title(language.English).String(name)
	}
	return name
}

func (c Classifier) dataset(heading string, raw RawSection) DatasetHeader {
	var tables []int
	for i, blk := range raw.Body {
		if blk.Kind == document.BlockTable {
			tables = append(tables, i)
		}
	}

	d := DatasetHeader{Name: labelName(heading)}

	if len(tables) < 2 {
		text := paragraphText(raw.Body)
		d.Layout = SingleTable
		d.Description = text.Text
		d.Links = text.Links
		if len(tables) == 1 {
			sota, err := ParseSota(raw.Body[tables[0]], c.ModelParser)
			if err != nil {
				d.TableErrors = append(d.TableErrors, TableError{Dataset: d.Name, Err: err})
			}
			d.Sota = sota
		}
		return d
	}

	d.Layout = MultiTable
	consumed := make(map[int]bool, 2*len(tables))
	for _, idx := range tables {
		consumed[idx] = true
		// The heading sits before Body[0]; a table directly under it has
		// no label paragraph.
		if idx < 1 {
			d.Unpaired++
			continue
		}
		name, ok := subdatasetLabel(raw.Body[idx-1])
		if !ok {
			d.Unpaired++
			continue
		}
		consumed[idx-1] = true

		sub := types.NewDataset(name, "")
		sota, err := ParseSota(raw.Body[idx], c.ModelParser)
		if err != nil {
			d.TableErrors = append(d.TableErrors, TableError{Dataset: name, Err: err})
		}
		sub.Sota = sota
		d.Subdatasets = append(d.Subdatasets, sub)
	}

	var rest []*document.Block
	for i, blk := range raw.Body {
		if !consumed[i] {
			rest = append(rest, blk)
		}
	}
	text := ExtractBlocks(KeepLinks, rest...)
	d.Description = text.Text
	d.Links = text.Links
	return d
}

// subdatasetLabel returns the bold label of a paragraph whose first
// non-blank inline is a strong span.
func subdatasetLabel(blk *document.Block) (string, bool) {
	if blk.Kind != document.BlockParagraph {
		return "", false
	}
	for _, in := range blk.Inlines {
		if in.Kind == document.InlineText && strings.TrimSpace(in.Text) == "" {
			continue
		}
		if in.Kind != document.InlineStrong {
			return "", false
		}
		name := labelName(ExtractText(StripLinks, in).Text)
		return name, name != ""
	}
	return "", false
}

func labelName(s string) string {
	return strings.Trim(strings.TrimSpace(s), ":")
}

func paragraphText(body []*document.Block) Text {
	var ps []*document.Block
	for _, blk := range body {
		if blk.Kind == document.BlockParagraph {
			ps = append(ps, blk)
		}
	}
	return ExtractBlocks(KeepLinks, ps...)
}
