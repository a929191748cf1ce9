// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/internal/fixer"
	"github.com/pdiddy/sota-extractor/internal/nlpprogress"
	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [files or directories...]",
	Short: "Parse NLP-progress markdown pages into a task repository",
	Long: `Parse reads NLP-progress markdown pages (files, or directories of *.md
files) and builds the task hierarchy with its leaderboard tables. Structurally
invalid entries are pruned, hierarchy-correction rules and synonyms are applied,
and the repository is written as JSON, gzipped JSON or YAML.

Use --print for a human-readable listing instead.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, parseFlagKeys)
	},
	RunE: runParse,
}

func init() {
	addParseFlags(parseCmd)
	parseCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	parseCmd.Flags().String("format", "", "output format: json, json.gz or yaml (default from --output extension, else json)")
	parseCmd.Flags().Bool("print", false, "print tasks in human-readable form")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more markdown files or directories")
	}
	cfg := pipelineConfig().Parse

	parser, fx, err := newCorpusParser(cfg)
	if err != nil {
		return err
	}

	var parsed []*types.Task
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		var tasks []*types.Task
		if info.IsDir() {
			tasks, err = parser.ParseDir(path)
		} else {
			tasks, err = parser.ParseFile(path)
		}
		if err != nil {
			return err
		}
		parsed = append(parsed, tasks...)
	}

	tdb := taskdb.New()
	for _, t := range fx.ApplyAll(parsed) {
		tdb.AddTask(t)
	}
	if err := applySynonyms(tdb, cfg.SynonymFiles); err != nil {
		return err
	}
	logger.Info("parsed corpus",
		zap.Int("inputs", len(args)),
		zap.Int("parsed", len(parsed)),
		zap.Int("tasks", tdb.Len()))

	if p, _ := cmd.Flags().GetBool("print"); p {
		return printRepository(cmd.OutOrStdout(), tdb)
	}
	return writeRepository(cmd, tdb)
}

// newCorpusParser builds the markdown parser and fixer from configuration.
func newCorpusParser(cfg types.ParseConfig) (*nlpprogress.Parser, fixer.Fixer, error) {
	mp, err := nlpprogress.ModelParserByName(cfg.ModelParser)
	if err != nil {
		return nil, fixer.Fixer{}, err
	}
	var fx fixer.Fixer
	if cfg.RulesFile != "" {
		if fx.Rules, err = fixer.LoadRules(cfg.RulesFile); err != nil {
			return nil, fixer.Fixer{}, err
		}
	}
	parser := nlpprogress.NewParser(
		nlpprogress.WithLogger(logger),
		nlpprogress.WithModelParser(mp),
		nlpprogress.WithTitleCase(cfg.TitleCaseTasks),
		nlpprogress.WithSourceLink(nlpprogress.SourceLink()),
	)
	return parser, fx, nil
}

func applySynonyms(tdb *taskdb.TaskDB, files []string) error {
	if len(files) == 0 {
		return nil
	}
	n, err := tdb.LoadSynonymFiles(files...)
	if err != nil {
		return err
	}
	logger.Info("loaded synonyms", zap.Int("attached", n))
	return nil
}

// writeRepository writes tdb to --output, or stdout, in --format.
func writeRepository(cmd *cobra.Command, tdb *taskdb.TaskDB) error {
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")

	format := taskdb.FormatJSON
	switch {
	case formatName != "":
		f, err := taskdb.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	case output != "":
		format = taskdb.FormatFromPath(output)
	}

	if output == "" {
		return tdb.Dump(cmd.OutOrStdout(), format)
	}
	if err := tdb.DumpFile(output, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d tasks to %s\n", tdb.Len(), output)
	return nil
}

func printRepository(w io.Writer, tdb *taskdb.TaskDB) error {
	for _, t := range tdb.Tasks() {
		if err := taskdb.PrintTask(w, t); err != nil {
			return err
		}
	}
	return nil
}
