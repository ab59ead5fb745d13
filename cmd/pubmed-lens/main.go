// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-lens CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-lens/internal/secrets"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pubmed-lens CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-lens",
	Short: "Temporal manufacturer publication search over PubMed",
	Long: `pubmed-lens answers "how many publications mention manufacturer X in
year Y" when X has traded under different names or absorbed other
companies over time. It resolves each manufacturer's name history into
time-bounded query terms, searches PubMed under a shared rate limit,
and derives per-field statistics from a bounded sample.

Manufacturer name histories live in a local store managed with the
"manufacturers" subcommands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-lens.yaml or ~/.config/pubmed-lens/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log engine internals to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-lens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-lens"))
		}
	}

	viper.SetDefault("pubmed.tool", "pubmed-lens")
	viper.SetDefault("pubmed.timeout", 30*time.Second)
	viper.SetDefault("pubmed.user_agent", "pubmed-lens/"+version)
	viper.SetDefault("pubmed.requests_per_second", 3)
	viper.SetDefault("pubmed.max_retries", 3)
	viper.SetDefault("engine.max_concurrent", 4)
	viper.SetDefault("engine.max_sample", 1000)
	viper.SetDefault("store.backend", "yaml")
	viper.SetDefault("store.path", "manufacturers.yaml")

	viper.SetEnvPrefix("PUBMED_LENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadAppConfig materializes the viper state into the typed config and
// overlays secrets that were not set explicitly.
func loadAppConfig() types.Config {
	cfg := types.Config{
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("pubmed.timeout"),
				UserAgent: viper.GetString("pubmed.user_agent"),
			},
			BaseURL:           viper.GetString("pubmed.base_url"),
			APIKey:            viper.GetString("pubmed.api_key"),
			Tool:              viper.GetString("pubmed.tool"),
			Email:             viper.GetString("pubmed.email"),
			RequestsPerSecond: viper.GetFloat64("pubmed.requests_per_second"),
			MaxRetries:        viper.GetInt("pubmed.max_retries"),
			PageSize:          viper.GetInt("pubmed.page_size"),
			SummaryBatchSize:  viper.GetInt("pubmed.summary_batch_size"),
		},
		Engine: types.EngineConfig{
			MaxConcurrent: viper.GetInt("engine.max_concurrent"),
			MaxSample:     viper.GetInt("engine.max_sample"),
		},
		Store: types.StoreConfig{
			Backend: viper.GetString("store.backend"),
			Path:    viper.GetString("store.path"),
		},
	}
	if cfg.PubMed.APIKey == "" {
		cfg.PubMed.APIKey = loadedSecrets["pubmed-api-key"]
	}
	if cfg.PubMed.Email == "" {
		cfg.PubMed.Email = loadedSecrets["contact-email"]
	}
	return cfg
}

// buildLogger returns a stderr console logger when --verbose is set and
// a no-op logger otherwise, so normal command output stays clean.
func buildLogger(cmd *cobra.Command) *zap.SugaredLogger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop().Sugar()
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
