// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrapers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/internal/fixer"
	"github.com/pdiddy/sota-extractor/internal/gitrepo"
	"github.com/pdiddy/sota-extractor/internal/nlpprogress"
	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// SourceNLPProgress is the registry name of the NLP-progress source.
const SourceNLPProgress = "nlp-progress"

// nlpProgressSubdir holds the English-language task pages.
const nlpProgressSubdir = "english"

// Cloner fetches a git repository into a local directory.
type Cloner interface {
	Clone(ctx context.Context, url, dest string) error
}

// NLPProgress parses the NLP-progress markdown pages. With Dir set it
// reads an existing checkout; otherwise it clones RepoURL into a temporary
// directory removed afterwards.
type NLPProgress struct {
	RepoURL string
	Dir     string

	Parser *nlpprogress.Parser
	Fixer  fixer.Fixer
	Cloner Cloner
	Log    *zap.Logger
}

// NewNLPProgress builds the source from configuration.
func NewNLPProgress(scrape types.ScrapeConfig, parse types.ParseConfig, log *zap.Logger) (*NLPProgress, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mp, err := nlpprogress.ModelParserByName(parse.ModelParser)
	if err != nil {
		return nil, err
	}

	var rules []fixer.Rule
	if parse.RulesFile != "" {
		if rules, err = fixer.LoadRules(parse.RulesFile); err != nil {
			return nil, err
		}
	}

	repo := scrape.NLPProgressRepo
	if repo == "" {
		repo = nlpprogress.RepoURL
	}

	return &NLPProgress{
		RepoURL: repo,
		Parser: nlpprogress.NewParser(
			nlpprogress.WithLogger(log),
			nlpprogress.WithModelParser(mp),
			nlpprogress.WithTitleCase(parse.TitleCaseTasks),
			nlpprogress.WithSourceLink(nlpprogress.SourceLink()),
		),
		Fixer:  fixer.Fixer{Rules: rules},
		Cloner: gitrepo.New(),
		Log:    log,
	}, nil
}

func (s *NLPProgress) Name() string { return SourceNLPProgress }

func (s *NLPProgress) Scrape(ctx context.Context) (*taskdb.TaskDB, error) {
	root := s.Dir
	if root == "" {
		tmp, err := os.MkdirTemp("", "nlp-progress-*")
		if err != nil {
			return nil, fmt.Errorf("creating checkout directory: %w", err)
		}
		defer os.RemoveAll(tmp)

		root = filepath.Join(tmp, "nlp-progress")
		if err := s.Cloner.Clone(ctx, s.RepoURL, root); err != nil {
			return nil, &DataError{Source: s.Name(), Msg: "could not clone the NLP-progress repository", Err: err}
		}
	}

	tasks, err := s.Parser.ParseDir(filepath.Join(root, nlpProgressSubdir))
	if err != nil {
		return nil, &DataError{Source: s.Name(), Msg: "reading task pages", Err: err}
	}

	tdb := taskdb.New()
	for _, t := range s.Fixer.ApplyAll(tasks) {
		tdb.AddTask(t)
	}
	s.log().Info("parsed NLP-progress",
		zap.String("root", root),
		zap.Int("parsed", len(tasks)),
		zap.Int("kept", tdb.Len()))
	return tdb, nil
}

func (s *NLPProgress) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
