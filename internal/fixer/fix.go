// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixer prunes parsed task trees down to the parts that carry
// leaderboard results and applies configurable hierarchy corrections.
package fixer

import (
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// Fix prunes task bottom-up and returns it, or nil when nothing survives.
// A subdataset survives when it has rows (its own nested subdatasets are
// filtered the same way); a dataset survives when it keeps a subdataset or
// has rows; a task survives when it keeps a dataset or a subtask. Fix
// mutates task in place and is idempotent.
func Fix(task *types.Task) *types.Task {
	if task == nil {
		return nil
	}
	task.Datasets = fixDatasets(task.Datasets)

	subtasks := task.Subtasks[:0]
	for _, sub := range task.Subtasks {
		if Fix(sub) != nil {
			subtasks = append(subtasks, sub)
		}
	}
	task.Subtasks = subtasks

	if len(task.Datasets) == 0 && len(task.Subtasks) == 0 {
		return nil
	}
	return task
}

// FixAll applies Fix to each task and drops the ones that do not survive.
func FixAll(tasks []*types.Task) []*types.Task {
	var out []*types.Task
	for _, t := range tasks {
		if Fix(t) != nil {
			out = append(out, t)
		}
	}
	return out
}

func fixDatasets(datasets []*types.Dataset) []*types.Dataset {
	kept := datasets[:0]
	for _, d := range datasets {
		if fixDataset(d) {
			kept = append(kept, d)
		}
	}
	return kept
}

func fixDataset(d *types.Dataset) bool {
	d.Subdatasets = fixSubdatasets(d.Subdatasets)
	return len(d.Subdatasets) > 0 || d.Sota.HasRows()
}

func fixSubdatasets(subs []*types.Dataset) []*types.Dataset {
	kept := subs[:0]
	for _, sd := range subs {
		sd.Subdatasets = fixSubdatasets(sd.Subdatasets)
		if sd.Sota.HasRows() {
			kept = append(kept, sd)
		}
	}
	return kept
}
