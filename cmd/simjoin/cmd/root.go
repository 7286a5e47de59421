package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treesimjoin/simjoin/pkg/config"
	"github.com/treesimjoin/simjoin/pkg/telemetry"
	"github.com/treesimjoin/simjoin/pkg/utils"
)

var (
	// Global flags
	verbose bool
	cfgFile string

	logger    utils.Logger
	appConfig *config.Config

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "simjoin",
	Short: "A tree edit distance similarity join engine",
	Long: `simjoin computes tree edit distance between labeled ordered trees and
runs similarity joins and lookups over tree corpora.

It implements the Zhang-Shasha, APTED, constrained and Touzet kernels for
ordered trees, JSON-aware variants (JEDI, JOFilter, DPJED/ModPJED), and the
TJoin/Tang/Guha candidate-generation join strategies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		// cfg.Telemetry.Enabled lets a config file opt a deployment into
		// tracing without the operator touching the environment; pkg/telemetry
		// itself only reads OTEL_ENABLED, so bridge the two here.
		if cfg.Telemetry.Enabled {
			os.Setenv("OTEL_ENABLED", "true")
		}
		shutdown, err := telemetry.Init(context.Background())
		if err != nil {
			logger.Warn("telemetry init failed, continuing unsampled: %v", err)
		}
		telemetryShutdown = shutdown
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if telemetryShutdown != nil {
		_ = telemetryShutdown(context.Background())
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file (defaults to ./config.yaml)")

	binName := BinName()
	rootCmd.Example = `  # Compute the tree edit distance between two bracket-notation trees
  ` + binName + ` ted a.bracket b.bracket --kernel touzet --tau 3

  # Import a directory of bracket-notation trees as a named corpus
  ` + binName + ` corpus import ./trees bolzano

  # Join a corpus against itself at threshold 2 using the TJoin strategy
  ` + binName + ` join bolzano --algo tjoin --tau 2

  # Look up the nearest neighbors of a query tree in an indexed corpus
  ` + binName + ` lookup query.bracket bolzano --algo index --tau 2`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return appConfig
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
