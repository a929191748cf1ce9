// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrapers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/internal/fixer"
	"github.com/pdiddy/sota-extractor/internal/httputil"
	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// SourceEFF is the registry name of the AI-metrics progress source.
const SourceEFF = "eff"

// EFFURL is the AI-metrics progress export.
const EFFURL = "https://raw.githubusercontent.com/AI-metrics/AI-metrics/master/export-api/v01/progress.json"

// effSourceLink is attached to every task from the AI-metrics export.
var effSourceLink = types.Link{
	Title: "Progress of AI Research",
	URL:   "https://github.com/AI-metrics/AI-metrics",
}

type effProgress struct {
	Problems []effProblem `json:"problems"`
}

type effProblem struct {
	Name    string      `json:"name"`
	Metrics []effMetric `json:"metrics"`
}

type effMetric struct {
	Name     string       `json:"name"`
	Scale    string       `json:"scale"`
	Measures []effMeasure `json:"measures"`
}

type effMeasure struct {
	Name          string             `json:"name"`
	PaperName     string             `json:"papername"`
	URL           string             `json:"url"`
	Date          string             `json:"date"`
	Value         taskdb.MetricValue `json:"value"`
	ReplicatedURL string             `json:"replicated_url"`
}

// EFF maps the AI-metrics export: problems become tasks, metrics with
// measures become datasets whose single metric is the scale, and each
// measure becomes a row.
type EFF struct {
	URL       string
	Client    *http.Client
	HTTP      httputil.Options
	TaskNames map[string]string
	Log       *zap.Logger
}

// NewEFF builds the source from configuration.
func NewEFF(cfg types.ScrapeConfig, log *zap.Logger) *EFF {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EFF{
		URL:       EFFURL,
		Client:    &http.Client{Timeout: timeout},
		HTTP:      httputil.Options{UserAgent: cfg.UserAgent, MaxRetries: cfg.MaxRetries},
		TaskNames: EFFTaskConversion,
		Log:       log,
	}
}

func (s *EFF) Name() string { return SourceEFF }

func (s *EFF) Scrape(ctx context.Context) (*taskdb.TaskDB, error) {
	var progress effProgress
	if err := httputil.GetJSON(ctx, s.Client, s.URL, s.HTTP, &progress); err != nil {
		var (
			se *httputil.StatusError
			ue *url.Error
		)
		if errors.As(err, &se) || errors.As(err, &ue) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &DataError{Source: s.Name(), Msg: "unexpected progress document", Err: err}
	}
	if progress.Problems == nil {
		return nil, &DataError{Source: s.Name(), Msg: "progress document has no problems"}
	}

	tasks := make([]*types.Task, 0, len(progress.Problems))
	for _, p := range progress.Problems {
		tasks = append(tasks, effTask(p))
	}
	for _, r := range fixer.RenameRules(s.TaskNames) {
		tasks = r.Apply(tasks)
	}

	tdb := taskdb.New()
	for _, t := range tasks {
		tdb.AddTask(t)
	}
	if s.Log != nil {
		s.Log.Info("parsed AI-metrics progress",
			zap.Int("problems", len(progress.Problems)),
			zap.Int("tasks", tdb.Len()))
	}
	return tdb, nil
}

func effTask(p effProblem) *types.Task {
	t := types.NewTask(p.Name, "")
	link := effSourceLink
	t.SourceLink = &link

	for _, m := range p.Metrics {
		d := types.NewDataset(m.Name, "")
		d.Sota.Metrics = []string{m.Scale}
		for _, ms := range m.Measures {
			// Rows must name a model.
			if strings.TrimSpace(ms.Name) == "" {
				continue
			}
			row := types.SotaRow{
				ModelName:  ms.Name,
				PaperTitle: ms.PaperName,
				PaperURL:   ms.URL,
				CodeLinks:  []types.Link{},
				Metrics:    map[string]string{m.Scale: string(ms.Value)},
			}
			if date, err := time.Parse("2006-01-02", ms.Date); err == nil {
				row.PaperDate = &date
			}
			if ms.ReplicatedURL != "" {
				row.CodeLinks = append(row.CodeLinks, types.Link{Title: "Replicated", URL: ms.ReplicatedURL})
			}
			d.Sota.Rows = append(d.Sota.Rows, row)
		}
		if len(d.Sota.Rows) == 0 {
			continue
		}
		t.AddDataset(d)
	}
	return t
}
