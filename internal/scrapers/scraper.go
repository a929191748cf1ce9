// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrapers holds the remote sources that populate a task
// repository: the NLP-progress markdown corpus and the AI-metrics progress
// export. Each source fails independently; RunAll merges whatever
// succeeded.
package scrapers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/internal/taskdb"
)

// Scraper builds a task repository from one remote source.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) (*taskdb.TaskDB, error)
}

// DataError reports a source returning data of an unexpected shape, or
// none at all. It aborts that source only.
type DataError struct {
	Source string
	Msg    string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

func (e *DataError) Unwrap() error { return e.Err }

// IsDataError reports whether err is or wraps a *DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// Summary counts the outcome of a RunAll batch.
type Summary struct {
	Succeeded int
	Failed    int
	Tasks     int
}

// Total returns the number of sources run.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed
}

// RunAll runs each scraper in order, merging successful results into one
// repository. Failures are reported to w and the log and do not stop the
// batch; only context cancellation does.
func RunAll(ctx context.Context, scrapers []Scraper, w io.Writer, log *zap.Logger) (*taskdb.TaskDB, Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	out := taskdb.New()
	var sum Summary

	for _, s := range scrapers {
		if err := ctx.Err(); err != nil {
			return out, sum, err
		}

		fmt.Fprintf(w, "scraping %s\n", s.Name())
		tdb, err := s.Scrape(ctx)
		if err != nil {
			sum.Failed++
			fmt.Fprintf(w, "failed  %s: %v\n", s.Name(), err)
			log.Error("scraper failed",
				zap.String("source", s.Name()),
				zap.Bool("data_error", IsDataError(err)),
				zap.Error(err))
			continue
		}

		sum.Succeeded++
		out.Merge(tdb)
		fmt.Fprintf(w, "scraped %s (%d tasks)\n", s.Name(), tdb.Len())
	}

	sum.Tasks = out.Len()
	fmt.Fprintf(w, "\nScrape summary: %d succeeded, %d failed, %d tasks (total sources: %d)\n",
		sum.Succeeded, sum.Failed, sum.Tasks, sum.Total())
	return out, sum, nil
}

// Registry maps source names to scrapers.
type Registry struct {
	scrapers map[string]Scraper
}

// NewRegistry registers the given scrapers by name.
func NewRegistry(scrapers ...Scraper) *Registry {
	r := &Registry{scrapers: make(map[string]Scraper, len(scrapers))}
	for _, s := range scrapers {
		r.scrapers[s.Name()] = s
	}
	return r
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scrapers))
	for n := range r.scrapers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Select resolves names to scrapers. No names selects every scraper in
// sorted order.
func (r *Registry) Select(names ...string) ([]Scraper, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	out := make([]Scraper, 0, len(names))
	for _, n := range names {
		s, ok := r.scrapers[n]
		if !ok {
			return nil, fmt.Errorf("unknown source %q (available: %s)", n, strings.Join(r.Names(), ", "))
		}
		out = append(out, s)
	}
	return out, nil
}
