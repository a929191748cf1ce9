// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskdb

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTask(t *testing.T) {
	db := sampleDB()
	var buf bytes.Buffer

	require.NoError(t, PrintTask(&buf, db.GetTask("Reading Comprehension")))

	want := strings.Join([]string{
		"Name: Reading Comprehension",
		"Description: -",
		"Parent: Question Answering",
		"Source Link: -",
		"Datasets:",
		"      - Name: CoQA",
		"        Description: -",
		"        Rows: 2",
		"        Subdatasets: -",
		"Subtasks: -",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrintTask_NestedSubdatasets(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PrintTask(&buf, sampleDB().GetTask("Question Answering")))

	out := buf.String()
	assert.Contains(t, out, "Source Link: NLP-progress (https://github.com/sebastianruder/NLP-progress)\n")
	assert.Contains(t, out, "      - Name: GLUE\n")
	assert.Contains(t, out, "        Subdatasets:\n")
	assert.Contains(t, out, "              - Name: Dev\n")
	assert.Contains(t, out, "    Answer questions. See [SQuAD](http://squad).\n")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"", 10, nil},
		{"one two three", 7, []string{"one two", "three"}},
		{"  spaced\n\tout  ", 20, []string{"spaced out"}},
		{"supercalifragilistic ok", 5, []string{"supercalifragilistic", "ok"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrap(tt.in, tt.width), tt.in)
	}
}
