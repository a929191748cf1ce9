// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sota-extractor CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the sota-extractor CLI.
var rootCmd = &cobra.Command{
	Use:   "sota-extractor",
	Short: "Collect state-of-the-art leaderboards into a task repository",
	Long: `sota-extractor turns community-maintained leaderboard sources into one
structured repository of tasks, datasets and state-of-the-art result tables.

parse reads NLP-progress markdown pages from disk, scrape fetches the remote
sources, index and query keep the repository in a searchable SQLite index,
and publish uploads an export to a directory or S3 bucket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		l, err := newLogger(cfg.Log, viper.GetBool("debug"))
		if err != nil {
			return err
		}
		logger = l
		zap.ReplaceGlobals(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sota-extractor.yaml or ~/.config/sota-extractor/sota-extractor.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sota-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sota-extractor"))
		}
	}

	viper.SetEnvPrefix("SOTA_EXTRACTOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
