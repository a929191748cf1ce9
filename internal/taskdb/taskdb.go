// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taskdb is the repository of top-level tasks: name lookup one
// level into subtasks, synonym loading, leaderboard queries and the
// versioned on-disk schema.
//
// A TaskDB is not safe for concurrent mutation. Callers parsing in
// parallel build one TaskDB each and Merge them afterwards.
package taskdb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

// TaskDB maps top-level task names to tasks, preserving insertion order.
// The zero value is ready to use.
type TaskDB struct {
	order []string
	tasks map[string]*types.Task
}

// New returns an empty repository.
func New() *TaskDB {
	return &TaskDB{tasks: make(map[string]*types.Task)}
}

// AddTask inserts t under its name. A task with the same name is replaced
// and the original position kept.
func (db *TaskDB) AddTask(t *types.Task) {
	if db.tasks == nil {
		db.tasks = make(map[string]*types.Task)
	}
	if _, ok := db.tasks[t.Name]; !ok {
		db.order = append(db.order, t.Name)
	}
	db.tasks[t.Name] = t
}

// GetTask finds a top-level task by exact name, then scans the immediate
// subtasks of every top-level task. Deeper subtasks are not searched.
func (db *TaskDB) GetTask(name string) *types.Task {
	if t, ok := db.tasks[name]; ok {
		return t
	}
	for _, key := range db.order {
		for _, sub := range db.tasks[key].Subtasks {
			if sub.Name == name {
				return sub
			}
		}
	}
	return nil
}

// Tasks returns the top-level tasks in insertion order.
func (db *TaskDB) Tasks() []*types.Task {
	out := make([]*types.Task, 0, len(db.order))
	for _, key := range db.order {
		out = append(out, db.tasks[key])
	}
	return out
}

// Len reports the number of top-level tasks.
func (db *TaskDB) Len() int { return len(db.order) }

// Merge adds every task of other, in order.
func (db *TaskDB) Merge(other *TaskDB) {
	if other == nil {
		return
	}
	for _, t := range other.Tasks() {
		db.AddTask(t)
	}
}

// LoadSynonyms reads CSV rows of (task_name, synonym) and appends each
// synonym to the named task. Rows naming unknown tasks or with fewer than
// two fields are ignored. It returns the number of synonyms applied.
func (db *TaskDB) LoadSynonyms(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	applied := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return applied, nil
		}
		if err != nil {
			return applied, fmt.Errorf("reading synonyms: %w", err)
		}
		if len(row) < 2 {
			continue
		}
		if t := db.GetTask(row[0]); t != nil {
			t.Synonyms = append(t.Synonyms, row[1])
			applied++
		}
	}
}

// LoadSynonymFiles applies LoadSynonyms to each file in order.
func (db *TaskDB) LoadSynonymFiles(paths ...string) (int, error) {
	total := 0
	for _, path := range paths {
		n, err := loadSynonymFile(db, path)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func loadSynonymFile(db *TaskDB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening synonyms: %w", err)
	}
	defer f.Close()

	n, err := db.LoadSynonyms(f)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// TasksWithSota returns, depth-first, every task or subtask that owns a
// dataset with leaderboard rows.
func (db *TaskDB) TasksWithSota() []*types.Task {
	var out []*types.Task
	var walk func(*types.Task)
	walk = func(t *types.Task) {
		if t.HasSota() {
			out = append(out, t)
		}
		for _, sub := range t.Subtasks {
			walk(sub)
		}
	}
	for _, t := range db.Tasks() {
		walk(t)
	}
	return out
}

// DatasetsWithSota returns, depth-first through tasks and subtasks, every
// dataset that has leaderboard rows of its own or in a subdataset.
func (db *TaskDB) DatasetsWithSota() []*types.Dataset {
	var out []*types.Dataset
	var walk func(*types.Task)
	walk = func(t *types.Task) {
		for _, d := range t.Datasets {
			if d.HasSota() {
				out = append(out, d)
			}
		}
		for _, sub := range t.Subtasks {
			walk(sub)
		}
	}
	for _, t := range db.Tasks() {
		walk(t)
	}
	return out
}

// Export encodes every top-level task with the current schema.
func (db *TaskDB) Export() []TaskDoc {
	docs := make([]TaskDoc, 0, db.Len())
	for _, t := range db.Tasks() {
		docs = append(docs, EncodeTask(t))
	}
	return docs
}

// LoadOptions selects the documents Load reads. Files are read in order
// and their contents appended to Data.
type LoadOptions struct {
	Files []string
	Data  []TaskDoc

	// Format overrides format detection from the file extension.
	Format Format
}

// Load decodes tasks from files and/or inline documents and adds them.
// Nothing is added when any document fails to decode.
func (db *TaskDB) Load(opts LoadOptions) error {
	if len(opts.Files) == 0 && len(opts.Data) == 0 {
		return fmt.Errorf("%w: either files or data must be supplied", ErrArgument)
	}

	docs := append([]TaskDoc(nil), opts.Data...)
	for _, path := range opts.Files {
		format := opts.Format
		if format == "" {
			format = FormatFromPath(path)
		}
		fileDocs, err := ReadFile(path, format)
		if err != nil {
			return err
		}
		docs = append(docs, fileDocs...)
	}

	tasks := make([]*types.Task, 0, len(docs))
	for i, doc := range docs {
		t, err := DecodeTask(doc)
		if err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	for _, t := range tasks {
		db.AddTask(t)
	}
	return nil
}

// Dump writes the exported repository to w.
func (db *TaskDB) Dump(w io.Writer, format Format) error {
	return WriteDocs(w, db.Export(), format)
}

// DumpFile writes the exported repository to path.
func (db *TaskDB) DumpFile(path string, format Format) error {
	return WriteFile(path, db.Export(), format)
}
