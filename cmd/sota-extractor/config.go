// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "sota-extractor/0.1"
	defaultMaxRetries = 5
	defaultDBPath     = "index/sota.db"
	defaultMaxResults = 20
)

func setDefaults() {
	viper.SetDefault("parse.model_parser", "annotated")
	viper.SetDefault("parse.title_case_tasks", true)
	viper.SetDefault("scrape.timeout", defaultTimeout)
	viper.SetDefault("scrape.user_agent", defaultUserAgent)
	viper.SetDefault("scrape.max_retries", defaultMaxRetries)
	viper.SetDefault("store.db_path", defaultDBPath)
	viper.SetDefault("store.max_results", defaultMaxResults)
	viper.SetDefault("publish.region", "us-east-1")
	viper.SetDefault("log.level", "info")
}

// pipelineConfig reads the merged configuration: flags bound to keys,
// then SOTA_EXTRACTOR_* environment variables, then the config file.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Parse: types.ParseConfig{
			ModelParser:    viper.GetString("parse.model_parser"),
			TitleCaseTasks: viper.GetBool("parse.title_case_tasks"),
			RulesFile:      viper.GetString("parse.rules_file"),
			SynonymFiles:   viper.GetStringSlice("parse.synonym_files"),
		},
		Scrape: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scrape.timeout"),
				UserAgent: viper.GetString("scrape.user_agent"),
			},
			MaxRetries:      viper.GetInt("scrape.max_retries"),
			NLPProgressRepo: viper.GetString("scrape.nlp_progress_repo"),
		},
		Store: types.StoreConfig{
			DBPath:     viper.GetString("store.db_path"),
			MaxResults: viper.GetInt("store.max_results"),
		},
		Publish: types.PublishConfig{
			Region:          viper.GetString("publish.region"),
			Endpoint:        viper.GetString("publish.endpoint"),
			PathStyle:       viper.GetBool("publish.path_style"),
			AccessKeyID:     viper.GetString("publish.access_key_id"),
			SecretAccessKey: viper.GetString("publish.secret_access_key"),
		},
		Log: types.LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
	}
}

// newLogger builds the process logger. debug forces debug level.
func newLogger(cfg types.LogConfig, debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// parseFlagKeys maps the parser flags shared by parse and scrape to their
// configuration keys.
var parseFlagKeys = map[string]string{
	"model-parser": "parse.model_parser",
	"title-case":   "parse.title_case_tasks",
	"rules":        "parse.rules_file",
	"synonyms":     "parse.synonym_files",
}

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().String("model-parser", "annotated", "model-name strategy: annotated or anchored")
	cmd.Flags().Bool("title-case", true, "title-case task and subtask names")
	cmd.Flags().String("rules", "", "YAML file of hierarchy-correction rules")
	cmd.Flags().StringSlice("synonyms", nil, "CSV files of task_name,synonym rows")
}

// bindFlags binds the named flags of cmd to configuration keys. It runs
// per command so that commands sharing a key do not overwrite each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}
