// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlpprogress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sota-extractor/internal/document"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// firstTable parses markdown and returns its first table block.
func firstTable(t *testing.T, src string) *document.Block {
	t.Helper()
	doc, err := document.Parse([]byte(src))
	require.NoError(t, err)
	for _, blk := range doc.Blocks {
		if blk.Kind == document.BlockTable {
			return blk
		}
	}
	t.Fatalf("no table in %q", src)
	return nil
}

func TestParseSota_Markdown(t *testing.T) {
	table := firstTable(t, `| Model | Paper | Code | F1 | EM |
| --- | --- | --- | --- | --- |
| BERT (Devlin et al. 2019) | BERT paper [link](http://x) | | 91.2 | 85.3 |
`)

	sota, err := ParseSota(table, AnnotatedModelParser{})
	require.NoError(t, err)

	assert.Equal(t, []string{"F1", "EM"}, sota.Metrics)
	require.Len(t, sota.Rows, 1)
	row := sota.Rows[0]
	assert.Equal(t, "BERT (2019)", row.ModelName)
	assert.Equal(t, "BERT paper link", row.PaperTitle)
	assert.Equal(t, "http://x", row.PaperURL)
	assert.Equal(t, map[string]string{"F1": "91.2", "EM": "85.3"}, row.Metrics)
	assert.Empty(t, row.CodeLinks)
	assert.False(t, row.UsesAdditionalData)
}

func TestParseSota_MissingPaperColumn(t *testing.T) {
	table := document.TextTable(
		[]string{"Model", "Accuracy"},
		[]string{"BERT", "90.1"},
	)

	sota, err := ParseSota(table, nil)

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "paper", mc.Column)
	assert.Empty(t, sota.Rows)
	assert.Empty(t, sota.Metrics)
}

func TestParseSota_MissingModelColumn(t *testing.T) {
	table := document.TextTable([]string{"Method", "Paper", "F1"})

	_, err := ParseSota(table, nil)

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "model", mc.Column)
	assert.Contains(t, err.Error(), "method")
}

func TestParseSota_PrefersPaperSource(t *testing.T) {
	table := document.TextTable(
		[]string{" MODEL ", "Score", "Paper / Source"},
		[]string{"GPT", "42", "Language Models"},
	)

	sota, err := ParseSota(table, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Score"}, sota.Metrics)
	require.Len(t, sota.Rows, 1)
	assert.Equal(t, "Language Models", sota.Rows[0].PaperTitle)
	assert.Equal(t, map[string]string{"Score": "42"}, sota.Rows[0].Metrics)
}

func TestParseSota_SkipsMalformedRows(t *testing.T) {
	table := document.TextTable(
		[]string{"Model", "Paper", "Acc"},
		[]string{"Short", "row"},
		[]string{"(Smith 2019)", "No name", "1.0"},
		[]string{"Good", "Paper", " 2.0 "},
		[]string{"Too", "many", "cells", "here"},
	)

	sota, err := ParseSota(table, nil)
	require.NoError(t, err)

	require.Len(t, sota.Rows, 1)
	assert.Equal(t, "Good", sota.Rows[0].ModelName)
	assert.Equal(t, "2.0", sota.Rows[0].Metrics["Acc"])
}

func TestParseSota_CodeAndModelLinks(t *testing.T) {
	header := document.TextCells("Model", "Paper", "Code", "BLEU")
	row := []document.Cell{
		{Inlines: []*document.Inline{
			document.Link("http://model", document.Text("Big Model")),
			document.Text(" with additional unlabeled data"),
		}},
		{Inlines: []*document.Inline{document.Link("http://paper", document.Text("A Paper"))}},
		{Inlines: []*document.Inline{
			document.Link("http://code/1", document.Text("Official")),
			document.Text(" "),
			document.Link("http://code/2", document.Text("Port")),
		}},
		{Inlines: []*document.Inline{document.Text("30.1")}},
	}

	sota, err := ParseSota(document.Table(header, row), AnnotatedModelParser{})
	require.NoError(t, err)

	require.Len(t, sota.Rows, 1)
	got := sota.Rows[0]
	assert.Equal(t, "Big Model", got.ModelName)
	assert.True(t, got.UsesAdditionalData)
	assert.Equal(t, "A Paper", got.PaperTitle)
	assert.Equal(t, "http://paper", got.PaperURL)
	assert.Equal(t, []types.Link{{Title: "Big Model", URL: "http://model"}}, got.ModelLinks)
	assert.Equal(t, []types.Link{
		{Title: "Official", URL: "http://code/1"},
		{Title: "Port", URL: "http://code/2"},
	}, got.CodeLinks)
}

func TestParseSota_AnchoredStrategy(t *testing.T) {
	table := document.TextTable(
		[]string{"Model", "Paper", "F1"},
		[]string{"BERT (Devlin et al.)", "p", "1"},
		[]string{"BERT (a) (b)", "p", "2"},
	)

	sota, err := ParseSota(table, AnchoredModelParser{})
	require.NoError(t, err)

	require.Len(t, sota.Rows, 1)
	assert.Equal(t, "BERT", sota.Rows[0].ModelName)
}
