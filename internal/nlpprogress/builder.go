// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlpprogress

import (
	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

// Builder assembles classified sections into a forest of tasks. It keeps
// the currently open task and subtask; datasets attach to the subtask when
// one is open, else to the task.
type Builder struct {
	log        *zap.Logger
	sourceLink *types.Link

	task    *types.Task
	subtask *types.Task
	parsed  []*types.Task
}

// NewBuilder returns a builder that reports structural problems to log.
// A nil logger discards them.
func NewBuilder(log *zap.Logger, sourceLink *types.Link) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log, sourceLink: sourceLink}
}

// Add consumes one section.
func (b *Builder) Add(s Section) {
	switch sec := s.(type) {
	case TaskHeader:
		b.flush()
		b.task = b.newTask(sec.Name, sec.Description)
		b.subtask = nil

	case SubtaskHeader:
		if b.task == nil {
			b.log.Warn("subtask without a parent task, dropping",
				zap.String("subtask", sec.Name))
			b.subtask = nil
			return
		}
		b.subtask = b.newTask(sec.Name, sec.Description)
		b.task.AddSubtask(b.subtask)

	case DatasetHeader:
		b.addDataset(sec)

	case Other:
		b.log.Debug("ignoring section", zap.String("heading", sec.Heading), zap.Int("level", sec.Level))
	}
}

func (b *Builder) addDataset(sec DatasetHeader) {
	for _, te := range sec.TableErrors {
		b.log.Error("skipping leaderboard table",
			zap.String("dataset", te.Dataset), zap.Error(te.Err))
	}
	if sec.Unpaired > 0 {
		b.log.Debug("tables without a subdataset label",
			zap.String("dataset", sec.Name), zap.Int("tables", sec.Unpaired))
	}

	owner := b.subtask
	if owner == nil {
		owner = b.task
	}
	if owner == nil {
		b.log.Warn("dataset without a parent task, dropping",
			zap.String("dataset", sec.Name))
		return
	}

	d := types.NewDataset(sec.Name, sec.Description)
	d.Links = sec.Links
	d.Sota = sec.Sota
	for _, sub := range sec.Subdatasets {
		d.AddSubdataset(sub)
	}
	owner.AddDataset(d)
}

func (b *Builder) newTask(name, description string) *types.Task {
	t := types.NewTask(name, description)
	if b.sourceLink != nil {
		link := *b.sourceLink
		t.SourceLink = &link
	}
	return t
}

func (b *Builder) flush() {
	if b.task != nil {
		b.parsed = append(b.parsed, b.task)
	}
	b.task = nil
	b.subtask = nil
}

// Tasks closes the open task and returns every task built so far, in
// document order.
func (b *Builder) Tasks() []*types.Task {
	b.flush()
	return b.parsed
}
