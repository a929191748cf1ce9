// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-extractor/internal/index"
	"github.com/pdiddy/sota-extractor/internal/scrapers"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [sources...]",
	Short: "Fetch leaderboards from the remote sources",
	Long: `Scrape runs the named sources (default: all) and merges their tasks into
one repository. Sources:

  nlp-progress  clones the NLP-progress repository and parses english/*.md
  eff           downloads the AI-metrics progress export

A failing source is reported and skipped; the command fails only when every
source fails. Use --index to store the result in the SQLite index as well.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, mergeKeys(parseFlagKeys, map[string]string{
			"timeout":     "scrape.timeout",
			"user-agent":  "scrape.user_agent",
			"max-retries": "scrape.max_retries",
			"repo":        "scrape.nlp_progress_repo",
		}))
	},
	RunE: runScrape,
}

func init() {
	addParseFlags(scrapeCmd)
	scrapeCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	scrapeCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header for HTTP requests")
	scrapeCmd.Flags().Int("max-retries", defaultMaxRetries, "retries on HTTP 429 responses")
	scrapeCmd.Flags().String("repo", "", "NLP-progress git URL (default upstream)")
	scrapeCmd.Flags().String("repo-dir", "", "existing NLP-progress checkout to read instead of cloning")
	scrapeCmd.Flags().StringP("output", "o", "sota.json", "output file")
	scrapeCmd.Flags().String("format", "", "output format: json, json.gz or yaml (default from --output extension)")
	scrapeCmd.Flags().Bool("index", false, "also ingest the result into the SQLite index")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	nlp, err := scrapers.NewNLPProgress(cfg.Scrape, cfg.Parse, logger)
	if err != nil {
		return err
	}
	nlp.Dir, _ = cmd.Flags().GetString("repo-dir")

	registry := scrapers.NewRegistry(nlp, scrapers.NewEFF(cfg.Scrape, logger))
	selected, err := registry.Select(args...)
	if err != nil {
		return err
	}

	tdb, summary, err := scrapers.RunAll(cmd.Context(), selected, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if summary.Succeeded == 0 {
		return fmt.Errorf("all %d source(s) failed", summary.Failed)
	}
	if err := applySynonyms(tdb, cfg.Parse.SynonymFiles); err != nil {
		return err
	}
	if err := writeRepository(cmd, tdb); err != nil {
		return err
	}

	if idx, _ := cmd.Flags().GetBool("index"); idx {
		store, err := index.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Ingest(cmd.Context(), tdb, cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	return nil
}

func mergeKeys(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
