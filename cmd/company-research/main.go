// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the company-research CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/company-research/internal/secrets"
	"github.com/pdiddy/company-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// secretDefault returns fallback when set, otherwise the secret value for
// key, otherwise empty.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets.Get(key)
}

// rootCmd is the base command for the company-research CLI.
var rootCmd = &cobra.Command{
	Use:   "company-research",
	Short: "Research an organization from its public web presence",
	Long: `company-research gathers information about a named organization from its
official website and a professional-network directory, then synthesizes a
structured research report with a generative AI backend.

The research subcommand runs a full pass; export re-sends a stored report
to a configured destination.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./company-research.yaml or ~/.config/company-research/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("company-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "company-research"))
		}
	}

	viper.SetEnvPrefix("COMPANY_RESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildLogger constructs the CLI logger. Logs go to stderr so report
// output on stdout stays machine-readable.
func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// engineConfig resolves the engine configuration: defaults, then config
// file and environment, then secrets for API keys.
func engineConfig() types.EngineConfig {
	cfg := types.DefaultEngineConfig()

	if v := viper.GetDuration("fetch.timeout"); v > 0 {
		cfg.Fetch.Timeout = v
	}
	if v := viper.GetFloat64("fetch.requests_per_second"); v > 0 {
		cfg.Fetch.RequestsPerSecond = v
	}
	if v := viper.GetInt("directory.search_limit"); v > 0 {
		cfg.Directory.SearchLimit = v
	}
	if v := viper.GetDuration("directory.credential_ttl"); v > 0 {
		cfg.Directory.CredentialTTL = v
	}
	if v := viper.GetString("synthesis.backend"); v != "" {
		cfg.Synthesis.Backend = types.SynthesisBackend(v)
	}
	if v := viper.GetString("synthesis.model"); v != "" {
		cfg.Synthesis.Model = v
	}
	if v := viper.GetInt("dispatch.max_attempts"); v > 0 {
		cfg.Dispatch.MaxAttempts = v
	}

	cfg.Sink.SQLitePath = viper.GetString("sink.sqlite_path")
	cfg.Sink.NotionAPIKey = secretDefault("notion-api-key", viper.GetString("sink.notion_api_key"))
	cfg.Sink.NotionDatabaseID = secretDefault("notion-database-id", viper.GetString("sink.notion_database_id"))

	return cfg
}

// resolveSynthesis fills in backend-dependent synthesis settings.
func resolveSynthesis(cfg *types.SynthesisConfig) {
	switch cfg.Backend {
	case types.BackendGemini:
		cfg.APIKey = secretDefault("gemini-api-key", cfg.APIKey)
		if cfg.Model == "" {
			cfg.Model = "gemini-2.0-flash"
		}
	default:
		cfg.APIKey = secretDefault("anthropic-api-key", cfg.APIKey)
		if cfg.Model == "" {
			cfg.Model = "claude-sonnet-4-5-20250929"
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
