// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskdb

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

// wrapWidth matches the usual terminal dump width.
const wrapWidth = 70

// PrintTask writes a human-readable outline of t and its subtree to w.
func PrintTask(w io.Writer, t *types.Task) error {
	_, err := io.WriteString(w, strings.Join(taskLines(t), "\n")+"\n")
	return err
}

func taskLines(t *types.Task) []string {
	lines := []string{"Name: " + t.Name}
	lines = append(lines, descriptionLines(t.Description)...)
	if t.Parent == nil {
		lines = append(lines, "Parent: -")
	} else {
		lines = append(lines, "Parent: "+t.Parent.Name)
	}
	if t.SourceLink == nil {
		lines = append(lines, "Source Link: -")
	} else {
		lines = append(lines, fmt.Sprintf("Source Link: %s (%s)", t.SourceLink.Title, t.SourceLink.URL))
	}
	lines = append(lines, subItems("Datasets", t.Datasets, datasetLines)...)
	lines = append(lines, subItems("Subtasks", t.Subtasks, taskLines)...)
	return lines
}

func datasetLines(d *types.Dataset) []string {
	lines := []string{"Name: " + d.Name}
	lines = append(lines, descriptionLines(d.Description)...)
	lines = append(lines, fmt.Sprintf("Rows: %d", len(d.Sota.Rows)))
	lines = append(lines, subItems("Subdatasets", d.Subdatasets, datasetLines)...)
	return lines
}

func descriptionLines(desc string) []string {
	if strings.TrimSpace(desc) == "" {
		return []string{"Description: -"}
	}
	lines := []string{"Description:"}
	for _, l := range wrap(desc, wrapWidth) {
		lines = append(lines, "    "+l)
	}
	return lines
}

func subItems[T any](title string, items []T, render func(T) []string) []string {
	if len(items) == 0 {
		return []string{title + ": -"}
	}
	lines := []string{title + ":"}
	for _, it := range items {
		for i, l := range render(it) {
			if i == 0 {
				lines = append(lines, "      - "+l)
			} else {
				lines = append(lines, "        "+l)
			}
		}
	}
	return lines
}

// wrap greedily fills lines of at most width runes, breaking on
// whitespace. Words longer than width stand on their own line.
func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	n := 0
	for _, word := range strings.Fields(s) {
		wl := len([]rune(word))
		if n > 0 && n+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(word)
		n += wl
	}
	if n > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
