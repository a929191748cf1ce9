// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists task repositories in SQLite and answers
// leaderboard queries over them. Each task is kept as its encoded JSON
// document; leaderboard rows are flattened into a searchable table.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

const (
	defaultDBPath     = "index/sota.db"
	defaultMaxResults = 20
)

// Store manages the index database.
type Store struct {
	db         *sql.DB
	maxResults int

	// fts is false when the sqlite build lacks FTS5; Search then falls
	// back to LIKE matching.
	fts bool
}

// NewStore opens or creates the index database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			digest TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			task TEXT NOT NULL REFERENCES tasks(name) ON DELETE CASCADE,
			subtask TEXT NOT NULL DEFAULT '',
			dataset TEXT NOT NULL,
			subdataset TEXT NOT NULL DEFAULT '',
			model_name TEXT NOT NULL,
			paper_title TEXT,
			paper_url TEXT,
			paper_date TEXT,
			uses_additional_data INTEGER NOT NULL DEFAULT 0,
			metrics TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_task ON results(task)`,
		`CREATE INDEX IF NOT EXISTS idx_results_dataset ON results(dataset)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='results_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	_, err := s.db.Exec(`CREATE VIRTUAL TABLE results_fts USING fts5(model_name, paper_title, content=results, content_rowid=rowid)`)
	if err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}
	triggers := []string{
		`CREATE TRIGGER results_ai AFTER INSERT ON results BEGIN
			INSERT INTO results_fts(rowid, model_name, paper_title) VALUES (new.rowid, new.model_name, new.paper_title);
		END`,
		`CREATE TRIGGER results_ad AFTER DELETE ON results BEGIN
			INSERT INTO results_fts(results_fts, rowid, model_name, paper_title) VALUES('delete', old.rowid, old.model_name, old.paper_title);
		END`,
		`CREATE TRIGGER results_au AFTER UPDATE ON results BEGIN
			INSERT INTO results_fts(results_fts, rowid, model_name, paper_title) VALUES('delete', old.rowid, old.model_name, old.paper_title);
			INSERT INTO results_fts(rowid, model_name, paper_title) VALUES (new.rowid, new.model_name, new.paper_title);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
	Failed  int
}

// Total returns the number of tasks processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Removed + s.Failed
}

// Ingest stores every top-level task of tdb. Tasks whose encoded document
// is unchanged are skipped, changed tasks have their rows replaced, and
// tasks no longer present in tdb are removed.
func (s *Store) Ingest(ctx context.Context, tdb *taskdb.TaskDB, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	seen := make(map[string]bool, tdb.Len())

	for pos, t := range tdb.Tasks() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}
		seen[t.Name] = true

		payload, err := json.Marshal(taskdb.EncodeTask(t))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", t.Name, err)
			summary.Failed++
			continue
		}
		sum := sha256.Sum256(payload)
		digest := hex.EncodeToString(sum[:])

		var stored string
		err = s.db.QueryRowContext(ctx, `SELECT digest FROM tasks WHERE name = ?`, t.Name).Scan(&stored)
		if err == nil && stored == digest {
			if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET position = ? WHERE name = ?`, pos, t.Name); err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", t.Name, err)
				summary.Failed++
				continue
			}
			fmt.Fprintf(w, "skipped %s\n", t.Name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		rows := flatten(t)
		if err := s.ingestTask(ctx, t.Name, pos, digest, payload, rows); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", t.Name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d rows)\n", t.Name, len(rows))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d rows)\n", t.Name, len(rows))
			summary.Indexed++
		}
	}

	removed, err := s.removeStale(ctx, seen)
	for _, name := range removed {
		fmt.Fprintf(w, "removed %s\n", name)
	}
	summary.Removed = len(removed)
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, removed: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed, summary.Failed)
	return summary, nil
}

func (s *Store) ingestTask(ctx context.Context, name string, pos int, digest string, payload []byte, rows []RowResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE task = ?`, name); err != nil {
		return fmt.Errorf("deleting old rows: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (name, position, digest, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			position=excluded.position, digest=excluded.digest, payload=excluded.payload`,
		name, pos, digest, string(payload),
	)
	if err != nil {
		return fmt.Errorf("upserting task: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (task, subtask, dataset, subdataset, model_name, paper_title, paper_url, paper_date, uses_additional_data, metrics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		metricsJSON, err := json.Marshal(r.Metrics)
		if err != nil {
			return fmt.Errorf("encoding metrics for %s: %w", r.ModelName, err)
		}
		_, err = stmt.ExecContext(ctx,
			r.Task, r.Subtask, r.Dataset, r.Subdataset, r.ModelName,
			r.PaperTitle, r.PaperURL, r.PaperDate, r.UsesAdditionalData,
			string(metricsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting row %s: %w", r.ModelName, err)
		}
	}

	return tx.Commit()
}

func (s *Store) removeStale(ctx context.Context, keep map[string]bool) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if !keep[name] {
			stale = append(stale, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range stale {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE task = ?`, name); err != nil {
			return removed, fmt.Errorf("removing rows of %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE name = ?`, name); err != nil {
			return removed, fmt.Errorf("removing task %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// flatten lists the leaderboard rows of a task, its subtasks and their
// subdatasets.
func flatten(t *types.Task) []RowResult {
	var out []RowResult
	var walkDataset func(string, string, *types.Dataset, *types.Dataset)
	walkDataset = func(task, subtask string, top, d *types.Dataset) {
		sub := ""
		if d != top {
			sub = d.Name
		}
		for _, r := range d.Sota.Rows {
			rr := RowResult{
				Task:               task,
				Subtask:            subtask,
				Dataset:            top.Name,
				Subdataset:         sub,
				ModelName:          r.ModelName,
				PaperTitle:         r.PaperTitle,
				PaperURL:           r.PaperURL,
				UsesAdditionalData: r.UsesAdditionalData,
				Metrics:            r.Metrics,
			}
			if r.PaperDate != nil {
				rr.PaperDate = r.PaperDate.Format("2006-01-02")
			}
			out = append(out, rr)
		}
		for _, child := range d.Subdatasets {
			walkDataset(task, subtask, top, child)
		}
	}
	var walkTask func(string, *types.Task)
	walkTask = func(subtask string, task *types.Task) {
		for _, d := range task.Datasets {
			walkDataset(t.Name, subtask, d, d)
		}
		for _, st := range task.Subtasks {
			walkTask(st.Name, st)
		}
	}
	walkTask("", t)
	return out
}
