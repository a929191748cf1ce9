// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for leaderboard queries.
type QueryOptions struct {
	// Query is a full-text search over model names and paper titles.
	Query string

	// Task matches the task or subtask name exactly.
	Task string

	// Dataset matches the dataset or subdataset name exactly.
	Dataset string

	// Metric keeps rows that report the named metric.
	Metric string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Task == "" && q.Dataset == "" && q.Metric == ""
}

// RowResult is one leaderboard row with the task and dataset it belongs to.
type RowResult struct {
	Task               string            `json:"task" yaml:"task"`
	Subtask            string            `json:"subtask,omitempty" yaml:"subtask,omitempty"`
	Dataset            string            `json:"dataset" yaml:"dataset"`
	Subdataset         string            `json:"subdataset,omitempty" yaml:"subdataset,omitempty"`
	ModelName          string            `json:"model_name" yaml:"model_name"`
	PaperTitle         string            `json:"paper_title" yaml:"paper_title"`
	PaperURL           string            `json:"paper_url" yaml:"paper_url"`
	PaperDate          string            `json:"paper_date,omitempty" yaml:"paper_date,omitempty"`
	UsesAdditionalData bool              `json:"uses_additional_data" yaml:"uses_additional_data"`
	Metrics            map[string]string `json:"metrics" yaml:"metrics"`
}

// Search queries the indexed rows with optional full-text search and
// filters. Full-text results are ranked by relevance; otherwise rows come
// in repository order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]RowResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = strings.TrimSpace(opts.Query) != "" && s.fts
	)

	const columns = `r.task, r.subtask, r.dataset, r.subdataset, r.model_name,
		r.paper_title, r.paper_url, r.paper_date, r.uses_additional_data, r.metrics`

	if useFTS {
		qb.WriteString(`SELECT ` + columns + `
			FROM results_fts
			JOIN results r ON r.rowid = results_fts.rowid
			JOIN tasks t ON t.name = r.task
			WHERE results_fts MATCH ?`)
		args = append(args, ftsQuery(opts.Query))
	} else {
		qb.WriteString(`SELECT ` + columns + `
			FROM results r
			JOIN tasks t ON t.name = r.task
			WHERE 1=1`)
		for _, term := range strings.Fields(opts.Query) {
			qb.WriteString(` AND (r.model_name LIKE ? OR r.paper_title LIKE ?)`)
			like := "%" + term + "%"
			args = append(args, like, like)
		}
	}

	if opts.Task != "" {
		qb.WriteString(` AND (r.task = ? OR r.subtask = ?)`)
		args = append(args, opts.Task, opts.Task)
	}
	if opts.Dataset != "" {
		qb.WriteString(` AND (r.dataset = ? OR r.subdataset = ?)`)
		args = append(args, opts.Dataset, opts.Dataset)
	}
	if opts.Metric != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(r.metrics) WHERE key = ?)`)
		args = append(args, opts.Metric)
	}

	if useFTS {
		qb.WriteString(` ORDER BY results_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY t.position, r.rowid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []RowResult
	for rows.Next() {
		var (
			rr          RowResult
			title       sql.NullString
			url         sql.NullString
			date        sql.NullString
			metricsJSON sql.NullString
		)
		if err := rows.Scan(
			&rr.Task, &rr.Subtask, &rr.Dataset, &rr.Subdataset, &rr.ModelName,
			&title, &url, &date, &rr.UsesAdditionalData, &metricsJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rr.PaperTitle = title.String
		rr.PaperURL = url.String
		rr.PaperDate = date.String
		if metricsJSON.Valid {
			if err := json.Unmarshal([]byte(metricsJSON.String), &rr.Metrics); err != nil {
				return nil, fmt.Errorf("decoding metrics for %s: %w", rr.ModelName, err)
			}
		}
		results = append(results, rr)
	}
	return results, rows.Err()
}

// ftsQuery quotes each term as an FTS5 string so punctuation in model
// names is matched literally. Terms are implicitly ANDed.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
