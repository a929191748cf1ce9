// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskdb

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

func sotaWith(models ...string) types.Sota {
	s := types.Sota{Metrics: []string{"F1"}}
	for _, m := range models {
		s.Rows = append(s.Rows, types.SotaRow{ModelName: m, Metrics: map[string]string{"F1": "1.0"}})
	}
	return s
}

// sampleDB builds a repository exercising every field of the data model.
func sampleDB() *TaskDB {
	date := time.Date(2019, 10, 11, 0, 0, 0, 0, time.UTC)

	qa := types.NewTask("Question Answering", "Answer questions. See [SQuAD](http://squad).")
	qa.Categories = []string{"NLP"}
	qa.Synonyms = []string{"QA"}
	qa.SourceLink = &types.Link{Title: "NLP-progress", URL: "https://github.com/sebastianruder/NLP-progress"}

	squad := types.NewDataset("SQuAD", "Stanford QA")
	squad.Links = []types.Link{{Title: "site", URL: "http://squad"}}
	squad.Citations = []types.Link{{Title: "Rajpurkar 2016", URL: "http://arxiv/1606"}}
	squad.Sota = types.Sota{
		Metrics: []string{"EM", "F1"},
		Rows: []types.SotaRow{{
			ModelName:          "BERT (2019)",
			PaperTitle:         "BERT: Pre-training",
			PaperURL:           "https://arxiv.org/abs/1810.04805",
			PaperDate:          &date,
			CodeLinks:          []types.Link{{Title: "Official", URL: "https://github.com/google-research/bert"}},
			ModelLinks:         []types.Link{{Title: "BERT", URL: "http://bert"}},
			Metrics:            map[string]string{"EM": "85.3", "F1": "91.2"},
			UsesAdditionalData: true,
		}},
	}
	qa.AddDataset(squad)

	glue := types.NewDataset("GLUE", "")
	dev := types.NewDataset("Dev", "")
	dev.Sota = sotaWith("A")
	glue.AddSubdataset(dev)
	qa.AddDataset(glue)

	rc := types.NewTask("Reading Comprehension", "")
	coqa := types.NewDataset("CoQA", "")
	coqa.Sota = sotaWith("B", "C")
	rc.AddDataset(coqa)
	qa.AddSubtask(rc)

	mt := types.NewTask("Machine Translation", "")

	db := New()
	db.AddTask(qa)
	db.AddTask(mt)
	return db
}

func taskNames(tasks []*types.Task) []string {
	var out []string
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}

func TestAddTask_OverwriteKeepsPosition(t *testing.T) {
	var db TaskDB
	db.AddTask(types.NewTask("A", "first"))
	db.AddTask(types.NewTask("B", ""))
	db.AddTask(types.NewTask("A", "second"))

	assert.Equal(t, 2, db.Len())
	assert.Equal(t, []string{"A", "B"}, taskNames(db.Tasks()))
	assert.Equal(t, "second", db.GetTask("A").Description)
}

func TestGetTask_OneLevelOfSubtasks(t *testing.T) {
	top := types.NewTask("Top", "")
	child := types.NewTask("Child", "")
	grandchild := types.NewTask("Grandchild", "")
	child.AddSubtask(grandchild)
	top.AddSubtask(child)

	db := New()
	db.AddTask(top)

	assert.Same(t, top, db.GetTask("Top"))
	assert.Same(t, child, db.GetTask("Child"))
	assert.Nil(t, db.GetTask("Grandchild"))
	assert.Nil(t, db.GetTask("Missing"))
}

func TestMerge(t *testing.T) {
	a := New()
	a.AddTask(types.NewTask("X", "old"))
	b := New()
	b.AddTask(types.NewTask("Y", ""))
	b.AddTask(types.NewTask("X", "new"))

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, []string{"X", "Y"}, taskNames(a.Tasks()))
	assert.Equal(t, "new", a.GetTask("X").Description)
}

func TestLoadSynonyms(t *testing.T) {
	db := sampleDB()
	csv := "Question Answering,QA\nNo Such Task,ignored\nReading Comprehension,RC\nshort\nQuestion Answering,QA\n"

	n, err := db.LoadSynonyms(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"QA", "QA", "QA"}, db.GetTask("Question Answering").Synonyms)
	assert.Equal(t, []string{"RC"}, db.GetTask("Reading Comprehension").Synonyms)
	assert.Nil(t, db.GetTask("No Such Task"))
	assert.Equal(t, 2, db.Len())
}

func TestLoadSynonymFiles_Missing(t *testing.T) {
	_, err := New().LoadSynonymFiles(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestTasksWithSota(t *testing.T) {
	got := sampleDB().TasksWithSota()

	assert.Equal(t, []string{"Question Answering", "Reading Comprehension"}, taskNames(got))
}

func TestDatasetsWithSota_ChecksEachDataset(t *testing.T) {
	task := types.NewTask("T", "")
	full := types.NewDataset("full", "")
	full.Sota = sotaWith("m")
	task.AddDataset(full)
	task.AddDataset(types.NewDataset("empty", ""))
	viaSub := types.NewDataset("via-sub", "")
	sub := types.NewDataset("sub", "")
	sub.Sota = sotaWith("n")
	viaSub.AddSubdataset(sub)
	task.AddDataset(viaSub)

	db := New()
	db.AddTask(task)

	var names []string
	for _, d := range db.DatasetsWithSota() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"full", "via-sub"}, names)
}

func TestLoad_RequiresFilesOrData(t *testing.T) {
	err := New().Load(LoadOptions{})

	assert.True(t, errors.Is(err, ErrArgument))
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatJSONGzip, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			db := sampleDB()
			var buf bytes.Buffer
			require.NoError(t, db.Dump(&buf, format))

			docs, err := ReadDocs(&buf, format)
			require.NoError(t, err)
			loaded := New()
			require.NoError(t, loaded.Load(LoadOptions{Data: docs}))

			assert.Equal(t, db.Export(), loaded.Export())
		})
	}
}

func TestRoundTrip_File(t *testing.T) {
	db := sampleDB()
	path := filepath.Join(t.TempDir(), "out", "tasks.json.gz")
	require.NoError(t, db.DumpFile(path, FormatFromPath(path)))

	loaded := New()
	require.NoError(t, loaded.Load(LoadOptions{Files: []string{path}}))

	assert.Equal(t, db.Export(), loaded.Export())
}

func TestLoad_RestoresParents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleDB().Dump(&buf, FormatJSON))
	docs, err := ReadDocs(&buf, FormatJSON)
	require.NoError(t, err)

	db := New()
	require.NoError(t, db.Load(LoadOptions{Data: docs}))

	qa := db.GetTask("Question Answering")
	require.NotNil(t, qa)
	assert.Nil(t, qa.Parent)
	assert.Same(t, qa, qa.Subtasks[0].Parent)
	glue := qa.Datasets[1]
	assert.False(t, glue.IsSubdataset)
	assert.True(t, glue.Subdatasets[0].IsSubdataset)
	assert.Same(t, glue, glue.Subdatasets[0].Parent)
}

func TestDump_JSONContract(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleDB().Dump(&buf, FormatJSON))
	out := buf.String()

	for _, want := range []string{
		`"task": "Question Answering"`,
		`"dataset": "SQuAD"`,
		`"subdataset": "Dev"`,
		`"dataset_links": [`,
		`"dataset_citations": [`,
		`"paper_date": "2019-10-11"`,
		`"paper_date": null`,
		`"source_link": null`,
		`"uses_additional_data": true`,
		`"categories": []`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "is_subdataset")
	assert.NotContains(t, out, "parent")
	assert.Less(t, strings.Index(out, `"categories"`), strings.Index(out, `"task"`))
}

func TestLoad_DefaultsAndInferredMetrics(t *testing.T) {
	src := `[
  {"task": "Sparse"},
  {"task": "Numbers", "datasets": [
    {"sota": {"rows": [{"model_name": "m", "metrics": {"F1": 91.2, "ok": true, "raw": "88"}}]}}
  ]}
]`
	docs, err := ReadDocs(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)

	db := New()
	require.NoError(t, db.Load(LoadOptions{Data: docs}))

	sparse := db.GetTask("Sparse")
	require.NotNil(t, sparse)
	assert.Empty(t, sparse.Datasets)
	assert.Nil(t, sparse.SourceLink)

	d := db.GetTask("Numbers").Datasets[0]
	assert.Equal(t, "", d.Name)
	assert.False(t, d.IsSubdataset)
	row := d.Sota.Rows[0]
	assert.Equal(t, map[string]string{"F1": "91.2", "ok": "true", "raw": "88"}, row.Metrics)
	assert.Nil(t, row.PaperDate)
	assert.False(t, row.UsesAdditionalData)
}

func TestLoad_MissingModelName(t *testing.T) {
	src := `[{"task": "T", "datasets": [{"dataset": "D", "sota": {"rows": [{"paper_title": "p"}]}}]}]`
	docs, err := ReadDocs(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)

	db := New()
	err = db.Load(LoadOptions{Data: docs})

	assert.True(t, errors.Is(err, ErrMissingModelName))
	assert.Equal(t, 0, db.Len())
}

func TestLoad_InvalidPaperDate(t *testing.T) {
	src := `[{"task": "T", "datasets": [{"dataset": "D", "sota": {"rows": [{"model_name": "m", "paper_date": "last year"}]}}]}]`
	docs, err := ReadDocs(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)

	assert.ErrorContains(t, New().Load(LoadOptions{Data: docs}), "paper_date")
}

func TestFormats(t *testing.T) {
	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	assert.True(t, errors.Is(WriteDocs(&bytes.Buffer{}, nil, "xml"), ErrUnsupportedFormat))
	_, err = ReadDocs(strings.NewReader("[]"), "xml")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	assert.Equal(t, FormatJSONGzip, FormatFromPath("/tmp/Tasks.JSON.GZ"))
	assert.Equal(t, FormatYAML, FormatFromPath("tasks.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("tasks"))
}
