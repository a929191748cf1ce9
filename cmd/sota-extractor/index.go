// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-extractor/internal/index"
	"github.com/pdiddy/sota-extractor/internal/taskdb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the SQLite leaderboard index (store, export, stats)",
	Long: `Index keeps task repositories in a local SQLite database with full-text
search over model names and paper titles. Use subcommands to store exported
repositories, export the indexed one, or show counts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{
			"db":          "store.db_path",
			"max-results": "store.max_results",
		})
	},
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store <files...>",
	Short: "Ingest exported task repositories into the index",
	Long: `Store loads one or more exported repositories (JSON, gzipped JSON or
YAML) and ingests every task. Unchanged tasks are skipped, changed tasks are
replaced, and tasks missing from the input are removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	tdb := taskdb.New()
	if err := tdb.Load(taskdb.LoadOptions{Files: args}); err != nil {
		return err
	}

	store, err := index.NewStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), tdb, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d task(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the indexed repository to a file",
	Long: `Export rebuilds the repository from the index and writes it to path.
The format follows the extension: .json, .json.gz, .yaml or .yml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(pipelineConfig().Store)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportFile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
		return nil
	},
}

// --- stats subcommand ---

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of indexed tasks and leaderboard rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(pipelineConfig().Store)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tasks: %d, rows: %d\n", st.Tasks, st.Rows)
		return nil
	},
}

func init() {
	indexCmd.PersistentFlags().String("db", defaultDBPath, "SQLite index file")
	indexCmd.PersistentFlags().Int("max-results", defaultMaxResults, "maximum number of query results")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexExportCmd)
	indexCmd.AddCommand(indexStatsCmd)

	rootCmd.AddCommand(indexCmd)
}
