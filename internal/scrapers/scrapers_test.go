// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrapers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/sota-extractor/internal/fixer"
	"github.com/pdiddy/sota-extractor/internal/httputil"
	"github.com/pdiddy/sota-extractor/internal/nlpprogress"
	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

const progressJSON = `{
  "problems": [
    {
      "name": "Drawing pictures",
      "metrics": [
        {
          "name": "CIFAR-10 Image Generation",
          "scale": "Model Entropy",
          "measures": [
            {"name": "PixelCNN", "papername": "Conditional Image Generation", "url": "https://arxiv.org/abs/1606.05328", "date": "2016-06-16", "value": 3.03, "replicated_url": ""},
            {"name": "PixelRNN", "papername": "Pixel Recurrent Neural Networks", "url": "https://arxiv.org/abs/1601.06759", "value": 3.0, "replicated_url": "https://github.com/carpedm20/pixel-rnn-tensorflow"}
          ]
        },
        {"name": "No results", "scale": "Score", "measures": []}
      ]
    },
    {"name": "Unmapped problem", "metrics": []}
  ]
}`

func effServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestEFF_Scrape(t *testing.T) {
	ts := effServer(t, http.StatusOK, progressJSON)
	s := &EFF{URL: ts.URL, Client: ts.Client(), TaskNames: EFFTaskConversion}

	tdb, err := s.Scrape(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, tdb.Len())
	task := tdb.GetTask("Image Generation")
	require.NotNil(t, task)
	assert.Equal(t, &effSourceLink, task.SourceLink)
	require.Len(t, task.Datasets, 1)

	d := task.Datasets[0]
	assert.Equal(t, "CIFAR-10 Image Generation", d.Name)
	assert.Equal(t, []string{"Model Entropy"}, d.Sota.Metrics)
	require.Len(t, d.Sota.Rows, 2)

	first := d.Sota.Rows[0]
	assert.Equal(t, "PixelCNN", first.ModelName)
	assert.Equal(t, "Conditional Image Generation", first.PaperTitle)
	assert.Equal(t, map[string]string{"Model Entropy": "3.03"}, first.Metrics)
	require.NotNil(t, first.PaperDate)
	assert.Equal(t, "2016-06-16", first.PaperDate.Format("2006-01-02"))
	assert.Empty(t, first.CodeLinks)

	second := d.Sota.Rows[1]
	assert.Equal(t, "3.0", second.Metrics["Model Entropy"])
	assert.Nil(t, second.PaperDate)
	assert.Equal(t, []types.Link{{Title: "Replicated", URL: "https://github.com/carpedm20/pixel-rnn-tensorflow"}}, second.CodeLinks)

	assert.NotNil(t, tdb.GetTask("Unmapped problem"))
}

func TestEFF_SkipsUnnamedMeasures(t *testing.T) {
	const body = `{"problems": [{"name": "Speech", "metrics": [
		{"name": "Switchboard", "scale": "WER", "measures": [
			{"name": "", "value": 9.2},
			{"name": "  ", "value": 8.1},
			{"name": "IBM 2017", "value": 5.5}
		]},
		{"name": "CHiME", "scale": "WER", "measures": [{"name": "", "value": 12.0}]}
	]}]}`
	ts := effServer(t, http.StatusOK, body)
	s := &EFF{URL: ts.URL, Client: ts.Client()}

	tdb, err := s.Scrape(context.Background())
	require.NoError(t, err)

	task := tdb.GetTask("Speech")
	require.NotNil(t, task)
	require.Len(t, task.Datasets, 1)
	assert.Equal(t, "Switchboard", task.Datasets[0].Name)
	require.Len(t, task.Datasets[0].Sota.Rows, 1)
	assert.Equal(t, "IBM 2017", task.Datasets[0].Sota.Rows[0].ModelName)
}

func TestEFF_DataErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"no problems", `{"version": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := effServer(t, http.StatusOK, tt.body)
			s := &EFF{URL: ts.URL, Client: ts.Client()}

			_, err := s.Scrape(context.Background())

			assert.True(t, IsDataError(err), "got %v", err)
		})
	}
}

func TestEFF_HTTPError(t *testing.T) {
	ts := effServer(t, http.StatusBadGateway, "")
	s := &EFF{URL: ts.URL, Client: ts.Client()}

	_, err := s.Scrape(context.Background())

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.False(t, IsDataError(err))
}

func TestEFF_TransportError(t *testing.T) {
	ts := effServer(t, http.StatusOK, "{}")
	s := &EFF{URL: ts.URL, Client: ts.Client()}
	ts.Close()

	_, err := s.Scrape(context.Background())

	require.Error(t, err)
	assert.False(t, IsDataError(err))
}

// fakeCloner writes pages into the destination instead of running git.
type fakeCloner struct {
	pages map[string]string
	err   error
	urls  []string
}

func (f *fakeCloner) Clone(_ context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	dir := filepath.Join(dest, nlpProgressSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, body := range f.pages {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

const sentimentMD = `# Sentiment analysis

Classify the polarity of a text.

### IMDb

| Model | Accuracy | Paper / Source |
| --- | --- | --- |
| XLNet (Yang et al., 2019) | 96.21 | [XLNet](https://arxiv.org/abs/1906.08237) |

### Empty

No table here.
`

const emptyMD = `# Nothing here

Just prose.
`

func TestNLPProgress_Scrape(t *testing.T) {
	cloner := &fakeCloner{pages: map[string]string{
		"sentiment_analysis.md": sentimentMD,
		"empty.md":              emptyMD,
	}}
	s := &NLPProgress{
		RepoURL: "https://example.com/NLP-progress",
		Parser:  nlpprogress.NewParser(nlpprogress.WithSourceLink(nlpprogress.SourceLink())),
		Cloner:  cloner,
	}

	tdb, err := s.Scrape(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/NLP-progress"}, cloner.urls)
	require.Equal(t, 1, tdb.Len())
	task := tdb.GetTask("Sentiment Analysis")
	require.NotNil(t, task)
	assert.Equal(t, "NLP-progress", task.SourceLink.Title)
	require.Len(t, task.Datasets, 1)
	assert.Equal(t, "IMDb", task.Datasets[0].Name)
	assert.Equal(t, "96.21", task.Datasets[0].Sota.Rows[0].Metrics["Accuracy"])
}

func TestNLPProgress_LocalDirAndRules(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, nlpProgressSubdir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, nlpProgressSubdir, "s.md"), []byte(sentimentMD), 0o644))

	s := &NLPProgress{
		Dir:    root,
		Parser: nlpprogress.NewParser(),
		Fixer:  fixer.Fixer{Rules: []fixer.Rule{fixer.RenameRule{From: "Sentiment Analysis", To: "Sentiment Classification"}}},
		Cloner: &fakeCloner{err: errors.New("must not clone")},
	}

	tdb, err := s.Scrape(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, tdb.GetTask("Sentiment Classification"))
}

func TestNLPProgress_CloneFailureIsDataError(t *testing.T) {
	s := &NLPProgress{
		RepoURL: "u",
		Parser:  nlpprogress.NewParser(),
		Cloner:  &fakeCloner{err: errors.New("exit status 128")},
	}

	_, err := s.Scrape(context.Background())

	assert.True(t, IsDataError(err))
	assert.ErrorContains(t, err, "could not clone")
}

func TestNewNLPProgress(t *testing.T) {
	s, err := NewNLPProgress(types.ScrapeConfig{}, types.ParseConfig{ModelParser: "anchored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, nlpprogress.RepoURL, s.RepoURL)

	_, err = NewNLPProgress(types.ScrapeConfig{}, types.ParseConfig{ModelParser: "bogus"}, nil)
	assert.Error(t, err)

	_, err = NewNLPProgress(types.ScrapeConfig{}, types.ParseConfig{RulesFile: filepath.Join(t.TempDir(), "none.yaml")}, nil)
	assert.Error(t, err)
}

// stubScraper returns a fixed result.
type stubScraper struct {
	name  string
	tasks []string
	err   error
}

func (s stubScraper) Name() string { return s.name }

func (s stubScraper) Scrape(context.Context) (*taskdb.TaskDB, error) {
	if s.err != nil {
		return nil, s.err
	}
	tdb := taskdb.New()
	for _, n := range s.tasks {
		tdb.AddTask(types.NewTask(n, ""))
	}
	return tdb, nil
}

func TestRunAll_IsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var buf bytes.Buffer
	scrapers := []Scraper{
		stubScraper{name: "a", tasks: []string{"X", "Y"}},
		stubScraper{name: "broken", err: &DataError{Source: "broken", Msg: "page changed"}},
		stubScraper{name: "b", tasks: []string{"Y", "Z"}},
	}

	tdb, sum, err := RunAll(context.Background(), scrapers, &buf, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, Summary{Succeeded: 2, Failed: 1, Tasks: 3}, sum)
	assert.Equal(t, 3, sum.Total())
	assert.Equal(t, 3, tdb.Len())
	assert.Contains(t, buf.String(), "failed  broken: broken: page changed\n")
	assert.Contains(t, buf.String(), "scraped a (2 tasks)\n")

	entries := logs.FilterMessage("scraper failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["data_error"])
}

func TestRunAll_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, sum, err := RunAll(ctx, []Scraper{stubScraper{name: "a"}}, &bytes.Buffer{}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Total())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubScraper{name: "nlp-progress"}, stubScraper{name: "eff"})

	assert.Equal(t, []string{"eff", "nlp-progress"}, r.Names())

	all, err := r.Select()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := r.Select("nlp-progress")
	require.NoError(t, err)
	assert.Equal(t, "nlp-progress", one[0].Name())

	_, err = r.Select("squad")
	assert.ErrorContains(t, err, "unknown source")
}
