// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/sota-extractor/internal/taskdb"
)

// Stats counts the indexed content.
type Stats struct {
	Tasks int
	Rows  int
}

// Stats returns the number of indexed tasks and leaderboard rows.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tasks`).Scan(&st.Tasks); err != nil {
		return st, fmt.Errorf("counting tasks: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM results`).Scan(&st.Rows); err != nil {
		return st, fmt.Errorf("counting rows: %w", err)
	}
	return st, nil
}

// Load rebuilds the task repository from the stored documents, in the
// order they were last ingested.
func (s *Store) Load(ctx context.Context) (*taskdb.TaskDB, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, payload FROM tasks ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	defer rows.Close()

	var docs []taskdb.TaskDoc
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		var doc taskdb.TaskDoc
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return nil, fmt.Errorf("decoding task %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tdb := taskdb.New()
	if len(docs) == 0 {
		return tdb, nil
	}
	if err := tdb.Load(taskdb.LoadOptions{Data: docs}); err != nil {
		return nil, err
	}
	return tdb, nil
}

// ExportFile writes the indexed repository to path in the format implied
// by its extension.
func (s *Store) ExportFile(ctx context.Context, path string) error {
	tdb, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := tdb.DumpFile(path, taskdb.FormatFromPath(path)); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}
