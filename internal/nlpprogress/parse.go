// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nlpprogress recovers the task/dataset/leaderboard hierarchy from
// NLP-progress style markdown. Level-1 headings open tasks, level-2
// headings open subtasks and level-3 headings open datasets; tables under a
// dataset heading become leaderboards.
//
// Parsing is pure and sequential. Malformed tables, rows and headings are
// logged and skipped so one bad section never fails a document.
package nlpprogress

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/internal/document"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// RepoURL is the upstream NLP-progress repository.
const RepoURL = "https://github.com/sebastianruder/NLP-progress"

// SourceLink returns the link attached to tasks scraped from NLP-progress.
func SourceLink() types.Link {
	return types.Link{Title: "NLP-progress", URL: RepoURL}
}

// Parser converts markdown documents into raw (unfixed) task trees.
type Parser struct {
	log        *zap.Logger
	classifier Classifier
	sourceLink *types.Link
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger for structural diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithModelParser selects the model-name strategy.
func WithModelParser(mp ModelParser) Option {
	return func(p *Parser) {
		if mp != nil {
			p.classifier.ModelParser = mp
		}
	}
}

// WithTitleCase toggles title-casing of task and subtask names.
func WithTitleCase(on bool) Option {
	return func(p *Parser) { p.classifier.TitleCase = on }
}

// WithSourceLink attaches link to every parsed task.
func WithSourceLink(link types.Link) Option {
	return func(p *Parser) { p.sourceLink = &link }
}

// NewParser returns a parser using the annotated model parser, title-cased
// task names and no source link unless overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		log:        zap.NewNop(),
		classifier: Classifier{ModelParser: AnnotatedModelParser{}, TitleCase: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDocument builds the task forest of one document.
func (p *Parser) ParseDocument(doc *document.Document) []*types.Task {
	b := NewBuilder(p.log, p.sourceLink)
	for _, raw := range SplitSections(doc.Blocks) {
		b.Add(p.classifier.Classify(raw))
	}
	return b.Tasks()
}

// ParseBytes parses markdown source.
func (p *Parser) ParseBytes(src []byte) ([]*types.Task, error) {
	doc, err := document.Parse(src)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc), nil
}

// ParseFile parses one markdown file.
func (p *Parser) ParseFile(path string) ([]*types.Task, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		return nil, err
	}
	tasks := p.ParseDocument(doc)
	p.log.Debug("parsed file", zap.String("path", path), zap.Int("tasks", len(tasks)))
	return tasks, nil
}

// ParseDir parses every *.md file in dir in lexical order. Files that
// cannot be read are logged and skipped.
func (p *Parser) ParseDir(dir string) ([]*types.Task, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	sort.Strings(paths)

	var all []*types.Task
	for _, path := range paths {
		tasks, err := p.ParseFile(path)
		if err != nil {
			p.log.Error("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		all = append(all, tasks...)
	}
	return all, nil
}
