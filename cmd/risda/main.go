// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the risda CLI. It loads the
// research corpus, trains the vector space and label classifier, answers
// searches and recommendations from the command line and serves the JSON
// API.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the resolved configuration, filled in before any subcommand runs.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:   "risda",
	Short: "Research recommendations for regional innovation problems",
	Long: `risda keeps a corpus of regional research records and recommends the
records most similar to a free-text problem description. New records are
labelled automatically by a trained category classifier.

Load a corpus with import, fit the models with train, then query with
search and recommend or run the HTTP API with serve.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}
		cfg.Defaults()
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./risda.yaml or ~/.config/risda/risda.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the corpus database")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("corpus.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("risda")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "risda"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("RISDA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" || !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		fmt.Fprintln(os.Stderr, "Ignoring config file:", err)
	}
}

// setDefaults registers every key so that RISDA_* environment variables
// reach viper.Unmarshal.
func setDefaults() {
	var d types.Config
	d.Defaults()

	viper.SetDefault("corpus.data_dir", d.Corpus.DataDir)
	viper.SetDefault("model.vectorizer_path", d.Model.VectorizerPath)
	viper.SetDefault("model.classifier_path", d.Model.ClassifierPath)
	viper.SetDefault("model.fit_on_start", d.Model.FitOnStart)
	viper.SetDefault("search.page_size", d.Search.PageSize)
	viper.SetDefault("search.sort", string(d.Search.Sort))
	viper.SetDefault("search.min_score", d.Search.MinScore)
	viper.SetDefault("problem.candidates", d.Problem.Candidates)
	viper.SetDefault("problem.keep", d.Problem.Keep)
	viper.SetDefault("problem.page_size", d.Problem.PageSize)
	viper.SetDefault("ingest.workers", d.Ingest.Workers)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.rate_limit", d.Server.RateLimit)
	viper.SetDefault("server.rate_window", d.Server.RateWindow)
	viper.SetDefault("server.secrets_dir", d.Server.SecretsDir)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
