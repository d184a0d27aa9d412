// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the preop CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/preop-engine/internal/logging"
	"github.com/pdiddy/preop-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg holds the merged configuration, loaded before any command runs.
	cfg types.Config

	// logger writes diagnostics to stderr. Reports go to stdout.
	logger = zap.NewNop()
)

// rootCmd is the base command for the preop CLI.
var rootCmd = &cobra.Command{
	Use:   "preop",
	Short: "Preoperative risk evaluation from free-text patient descriptions",
	Long: `preop extracts age, weight, height and disease severity from a free-text
description of a surgical patient, then derives the ASA physical status,
a comorbidity risk score and perioperative blood-loss estimates.

Use assess for the full report, asa for the status code alone, and calc
to run a single formula.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd)
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding configuration: %w", err)
		}
		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./preop.yaml or ~/.config/preop/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// bindFlags ties the flags that override config keys to viper for the
// command being run.
func bindFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level"))
	if f := cmd.Flags().Lookup("format"); f != nil {
		_ = viper.BindPFlag("format", f)
	}
}

func initConfig() {
	viper.SetDefault("format", string(types.FormatYAML))
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("blood_loss.lowest_hct", 24.0)
	viper.SetDefault("blood_loss.lowest_hgb", 8.0)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("preop")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "preop"))
		}
	}

	viper.SetEnvPrefix("PREOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: could not read config %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
