// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the leaderboard data model shared by the parser,
// the fixer, the task repository, and the source collaborators:
// Task → Dataset → (Subdataset) → SotaRow.
//
// Parent fields are non-owning back-references. They are set when a child is
// attached to its parent and are never encoded; decoders rebuild them from
// tree position. Task and Dataset have no struct tags: their on-disk form is
// owned by the versioned schema in internal/taskdb.
package types

// Task is a benchmark problem category (e.g. "Question Answering").
type Task struct {
	// Name identifies the task. Top-level names are unique within a repository.
	Name string

	// Description is free prose, links re-rendered inline.
	Description string

	// Parent is the owning task for subtasks, nil for top-level tasks.
	Parent *Task

	Categories []string
	Datasets   []*Dataset
	Subtasks   []*Task

	// Synonyms are appended by the repository, never deduplicated.
	Synonyms []string

	// SourceLink points at the page or repository the task was scraped from.
	SourceLink *Link
}

// NewTask returns a task with the given name and description.
func NewTask(name, description string) *Task {
	return &Task{Name: name, Description: description}
}

// AddDataset appends d to the task's datasets.
func (t *Task) AddDataset(d *Dataset) {
	t.Datasets = append(t.Datasets, d)
}

// AddSubtask appends sub to the task's subtasks and sets its parent.
func (t *Task) AddSubtask(sub *Task) {
	sub.Parent = t
	t.Subtasks = append(t.Subtasks, sub)
}

// HasSota reports whether any dataset of this task (not its subtasks) has
// leaderboard rows, directly or in a subdataset.
func (t *Task) HasSota() bool {
	for _, d := range t.Datasets {
		if d.HasSota() {
			return true
		}
	}
	return false
}

// Link is a titled hyperlink.
type Link struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}
