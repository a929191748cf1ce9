// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/internal/index"
	"github.com/pdiddy/sota-extractor/internal/publish"
	"github.com/pdiddy/sota-extractor/internal/secrets"
	"github.com/pdiddy/sota-extractor/internal/taskdb"
)

var publishCmd = &cobra.Command{
	Use:   "publish <destination>",
	Short: "Upload the task repository to a directory or S3 bucket",
	Long: `Publish encodes the repository and uploads it to destination, either a
local directory or s3://bucket/prefix. The repository comes from --input files
when given, otherwise from the SQLite index.

S3 settings (region, endpoint, path style, static credentials) come from the
publish section of the config file or SOTA_EXTRACTOR_PUBLISH_* variables; the
default AWS credential chain is used otherwise. Credentials may also be kept
as files in --secrets-dir.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"db":         "store.db_path",
			"endpoint":   "publish.endpoint",
			"region":     "publish.region",
			"path-style": "publish.path_style",
		})
	},
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringSlice("input", nil, "exported repository files to publish instead of the index")
	publishCmd.Flags().String("db", defaultDBPath, "SQLite index file")
	publishCmd.Flags().String("name", "sota", "object name, without extension")
	publishCmd.Flags().String("format", "json", "format: json, json.gz or yaml")
	publishCmd.Flags().String("endpoint", "", "S3 endpoint override (MinIO and other compatible stores)")
	publishCmd.Flags().String("region", "us-east-1", "S3 region")
	publishCmd.Flags().Bool("path-style", false, "use path-style S3 addressing")
	publishCmd.Flags().String("secrets-dir", ".secrets", "directory holding s3-access-key-id and s3-secret-access-key files")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	sec, err := secrets.Load(secretsDir, logger)
	if err != nil {
		return err
	}
	if sec.ApplyPublish(&cfg.Publish) {
		logger.Debug("using S3 credentials from secrets directory", zap.String("dir", secretsDir))
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := taskdb.ParseFormat(formatName)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")

	tdb, err := publishSource(cmd)
	if err != nil {
		return err
	}

	p, err := publish.Open(cmd.Context(), args[0], cfg.Publish)
	if err != nil {
		return err
	}
	loc, err := publish.Repository(cmd.Context(), p, tdb, name, format)
	if err != nil {
		return err
	}
	logger.Info("published repository", zap.String("location", loc), zap.Int("tasks", tdb.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d tasks to %s\n", tdb.Len(), loc)
	return nil
}

func publishSource(cmd *cobra.Command) (*taskdb.TaskDB, error) {
	inputs, _ := cmd.Flags().GetStringSlice("input")
	if len(inputs) > 0 {
		tdb := taskdb.New()
		if err := tdb.Load(taskdb.LoadOptions{Files: inputs}); err != nil {
			return nil, err
		}
		return tdb, nil
	}

	store, err := index.NewStore(pipelineConfig().Store)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(cmd.Context())
}
