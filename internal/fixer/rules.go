// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fixer

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

// Rule reshapes a list of top-level tasks after pruning.
type Rule interface {
	Apply(tasks []*types.Task) []*types.Task
}

// Fixer prunes a task and then runs its rules in order.
type Fixer struct {
	Rules []Rule
}

// Apply returns the corrected top-level tasks derived from task. The result
// is empty when task does not survive pruning.
func (f Fixer) Apply(task *types.Task) []*types.Task {
	if Fix(task) == nil {
		return nil
	}
	out := []*types.Task{task}
	for _, r := range f.Rules {
		out = r.Apply(out)
	}
	return out
}

// ApplyAll runs Apply over tasks and concatenates the results.
func (f Fixer) ApplyAll(tasks []*types.Task) []*types.Task {
	var out []*types.Task
	for _, t := range tasks {
		out = append(out, f.Apply(t)...)
	}
	return out
}

// HoistRule promotes the named subtasks of Task to top-level tasks placed
// right after it. A parent left with nothing is dropped.
type HoistRule struct {
	Task     string
	Subtasks []string
}

func (r HoistRule) Apply(tasks []*types.Task) []*types.Task {
	hoist := make(map[string]bool, len(r.Subtasks))
	for _, name := range r.Subtasks {
		hoist[name] = true
	}

	var out []*types.Task
	for _, t := range tasks {
		if t.Name != r.Task {
			out = append(out, t)
			continue
		}

		var kept, lifted []*types.Task
		for _, sub := range t.Subtasks {
			if hoist[sub.Name] {
				sub.Parent = nil
				lifted = append(lifted, sub)
			} else {
				kept = append(kept, sub)
			}
		}
		t.Subtasks = kept

		if Fix(t) != nil {
			out = append(out, t)
		}
		out = append(out, lifted...)
	}
	return out
}

// RenameRule renames top-level tasks called From.
type RenameRule struct {
	From string
	To   string
}

func (r RenameRule) Apply(tasks []*types.Task) []*types.Task {
	for _, t := range tasks {
		if t.Name == r.From {
			t.Name = r.To
		}
	}
	return tasks
}

// RenameRules turns a name conversion table into rename rules, ordered by
// source name.
func RenameRules(table map[string]string) []Rule {
	from := make([]string, 0, len(table))
	for k := range table {
		from = append(from, k)
	}
	sort.Strings(from)

	rules := make([]Rule, 0, len(from))
	for _, k := range from {
		rules = append(rules, RenameRule{From: k, To: table[k]})
	}
	return rules
}

// Rule kinds accepted in a rules file.
const (
	KindHoist  = "hoist"
	KindRename = "rename"
)

// ruleSpec is one entry of a rules file.
type ruleSpec struct {
	Kind     string   `yaml:"kind"`
	Task     string   `yaml:"task"`
	Subtasks []string `yaml:"subtasks"`
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
}

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// ParseRules decodes a YAML rules document:
//
//	rules:
//	  - kind: hoist
//	    task: Language Modeling
//	    subtasks: [Word Level, Character Level]
//	  - kind: rename
//	    from: Nli
//	    to: Natural Language Inference
func ParseRules(data []byte) ([]Rule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	rules := make([]Rule, 0, len(f.Rules))
	for i, s := range f.Rules {
		switch s.Kind {
		case KindHoist:
			if s.Task == "" || len(s.Subtasks) == 0 {
				return nil, fmt.Errorf("rule %d: hoist needs task and subtasks", i)
			}
			rules = append(rules, HoistRule{Task: s.Task, Subtasks: s.Subtasks})
		case KindRename:
			if s.From == "" || s.To == "" {
				return nil, fmt.Errorf("rule %d: rename needs from and to", i)
			}
			rules = append(rules, RenameRule{From: s.From, To: s.To})
		default:
			return nil, fmt.Errorf("rule %d: unknown kind %q", i, s.Kind)
		}
	}
	return rules, nil
}

// LoadRules reads a YAML rules file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
