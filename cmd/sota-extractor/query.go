// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-extractor/internal/index"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search indexed leaderboard rows",
	Long: `Query searches the SQLite index with full-text search over model names
and paper titles, structured filters (task, dataset, metric), or both.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"db":          "store.db_path",
			"max-results": "store.max_results",
		})
	},
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("db", defaultDBPath, "SQLite index file")
	queryCmd.Flags().Int("max-results", defaultMaxResults, "default maximum number of results")
	queryCmd.Flags().String("task", "", "filter by task or subtask name")
	queryCmd.Flags().String("dataset", "", "filter by dataset or subdataset name")
	queryCmd.Flags().String("metric", "", "keep rows reporting this metric")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --task, --dataset, or --metric")
	}

	store, err := index.NewStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	task, _ := cmd.Flags().GetString("task")
	dataset, _ := cmd.Flags().GetString("dataset")
	metric, _ := cmd.Flags().GetString("metric")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      strings.Join(args, " "),
		Task:       task,
		Dataset:    dataset,
		Metric:     metric,
		MaxResults: limit,
	}
}

func formatQueryOutput(w io.Writer, results []index.RowResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-24s  %-24s  %s\n", "Rank", "Model", "Task", "Dataset", "Metrics")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		task := r.Task
		if r.Subtask != "" {
			task = r.Subtask
		}
		dataset := r.Dataset
		if r.Subdataset != "" {
			dataset += "/" + r.Subdataset
		}
		fmt.Fprintf(w, "%-4d  %-30s  %-24s  %-24s  %s\n",
			i+1, truncate(r.ModelName, 30), truncate(task, 24), truncate(dataset, 24), formatMetrics(r.Metrics))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func formatMetrics(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
