// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the icarus CLI. Subcommands run a
// research query once, serve the HTTP API, and browse archived runs.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ashr-exe/icarus-insight/internal/config"
	"github.com/ashr-exe/icarus-insight/internal/llm"
	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/internal/pipeline"
	"github.com/ashr-exe/icarus-insight/internal/secrets"
	"github.com/ashr-exe/icarus-insight/internal/source"
	"github.com/ashr-exe/icarus-insight/internal/store"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Built once in PersistentPreRunE and read by every subcommand.
var (
	cfg    types.Config
	logger *log.Logger
)

// rootCmd is the base command for the icarus CLI.
var rootCmd = &cobra.Command{
	Use:   "icarus",
	Short: "Aerospace research aggregation from patent and paper catalogues",
	Long: `icarus turns a free-text aerospace research question into a structured
report. It plans a search, queries patent and paper catalogues concurrently,
normalizes the results, derives a citation graph and technology trends, and
synthesizes a narrative summary.

A text-completion backend is optional. Without one every stage takes its
deterministic path. Use --offline to run against seeded synthetic catalogues.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := secrets.LoadDotEnv(".env"); err != nil {
			return err
		}

		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		level := viper.GetString("log_level")
		logger = logging.New(os.Stderr, logging.Options{Level: level, JSON: jsonLogs})

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		if keys := s.Keys(); len(keys) > 0 {
			logger.Debug("loaded secrets", "keys", keys)
		}

		c, err := config.Load(viper.GetViper(), s)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./icarus.yaml or ~/.config/icarus/config.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "emit logs as JSON")
	pf.Bool("offline", false, "use seeded synthetic catalogues instead of the network")
	pf.String("provider", "", "completion backend: none, anthropic, openai, groq, ollama, gemini")

	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("sources.offline", pf.Lookup("offline"))
	viper.BindPFlag("ai.provider", pf.Lookup("provider"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("icarus")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "icarus"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newController wires the pipeline from the loaded configuration.
func newController(ctx context.Context) (*pipeline.Controller, error) {
	completer, err := llm.New(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("configuring completion backend: %w", err)
	}
	if completer == nil {
		logger.Info("no completion backend, using deterministic planning and synthesis")
	} else {
		logger.Info("completion backend ready", "backend", completer.Name())
	}

	reg := source.FromConfig(cfg.Sources, logger)
	if len(reg.Patents)+len(reg.Papers) == 0 {
		logger.Warn("no catalogue adapters enabled")
	}
	logger.Debug("registered adapters", "adapters", reg.Names())
	return pipeline.New(cfg, reg, completer, logger), nil
}

// openStore opens the run archive, or returns nil when archiving is off
// and force is false.
func openStore(force bool) (*store.Store, error) {
	if !cfg.Store.Enabled && !force {
		return nil, nil
	}
	return store.Open(cfg.Store.Path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
