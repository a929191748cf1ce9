// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlpprogress

import (
	"fmt"
	"strings"

	"github.com/pdiddy/sota-extractor/internal/document"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// Normalized header names the table parser looks for.
const (
	columnModel       = "model"
	columnPaper       = "paper"
	columnPaperSource = "paper/source"
	columnCode        = "code"
)

// MissingColumnError reports a leaderboard table lacking a required column.
type MissingColumnError struct {
	Column  string
	Headers []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing %q column (headers: %s)", e.Column, strings.Join(e.Headers, ", "))
}

func normalizeHeader(h string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(h), "")
}

// ParseSota parses a leaderboard table. Rows whose cell count differs from
// the header count, or whose model cell yields no usable name, are skipped.
// A missing model or paper column fails the whole table.
func ParseSota(table *document.Block, mp ModelParser) (types.Sota, error) {
	if mp == nil {
		mp = AnnotatedModelParser{}
	}

	headers := make([]string, len(table.Header))
	normalized := make([]string, len(table.Header))
	for i, c := range table.Header {
		headers[i] = strings.TrimSpace(ExtractCell(StripLinks, c).Text)
		normalized[i] = normalizeHeader(headers[i])
	}

	modelIdx := indexOf(normalized, columnModel)
	if modelIdx < 0 {
		return types.Sota{}, &MissingColumnError{Column: columnModel, Headers: normalized}
	}
	paperIdx := indexOf(normalized, columnPaperSource)
	if paperIdx < 0 {
		paperIdx = indexOf(normalized, columnPaper)
	}
	if paperIdx < 0 {
		return types.Sota{}, &MissingColumnError{Column: columnPaper, Headers: normalized}
	}
	codeIdx := indexOf(normalized, columnCode)

	var metricIdx []int
	sota := types.Sota{Metrics: []string{}, Rows: []types.SotaRow{}}
	for i := range headers {
		if i == modelIdx || i == paperIdx || i == codeIdx {
			continue
		}
		metricIdx = append(metricIdx, i)
		sota.Metrics = append(sota.Metrics, headers[i])
	}

	for _, cells := range table.Rows {
		if len(cells) != len(headers) {
			continue
		}

		modelCell := ExtractCell(StripLinks, cells[modelIdx])
		model, ok := mp.Parse(modelCell.Text)
		if !ok {
			continue
		}

		paper := ExtractCell(StripLinks, cells[paperIdx])
		row := types.SotaRow{
			ModelName:          model.Name,
			PaperTitle:         strings.TrimSpace(paper.Text),
			CodeLinks:          []types.Link{},
			ModelLinks:         nonNilLinks(modelCell.Links),
			Metrics:            make(map[string]string, len(metricIdx)),
			UsesAdditionalData: model.UsesAdditionalData,
		}
		if len(paper.Links) > 0 {
			row.PaperURL = paper.Links[0].URL
		}
		if codeIdx >= 0 {
			row.CodeLinks = nonNilLinks(ExtractCell(StripLinks, cells[codeIdx]).Links)
		}
		for i, idx := range metricIdx {
			row.Metrics[sota.Metrics[i]] = strings.TrimSpace(ExtractCell(StripLinks, cells[idx]).Text)
		}
		sota.Rows = append(sota.Rows, row)
	}
	return sota, nil
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}

func nonNilLinks(links []types.Link) []types.Link {
	if links == nil {
		return []types.Link{}
	}
	return links
}
