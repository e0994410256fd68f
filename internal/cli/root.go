// Package cli implements the combstruct command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/combstruct/combstruct/internal/config"
	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root command. Every subcommand runs after the
// configuration (plus an optional --config overlay) is loaded and logging
// is set up.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult   *logging.LogPathResult
		overlayPath string
	)

	cmd := &cobra.Command{
		Use:           "combstruct",
		Short:         "Modular construction cost estimator",
		Long:          "combstruct: estimate cost, build time and CO2 savings of modular buildings against traditional construction",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(overlayPath); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			warnConfigLoadError(cmd)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&overlayPath, "config", "",
		"YAML file whose top-level sections override the configuration file")

	cmd.AddCommand(
		NewEstimateCmd(),
		NewOptionsCmd(),
		NewLocalesCmd(),
		NewBatchCmd(),
		NewCalculatorCmd(),
		NewServeCmd(),
		newConfigCmd(),
		NewVersionCmd(ver),
	)

	return cmd
}

const rootCmdExample = `  # Estimate the default single-family house
  combstruct estimate

  # A two-storey 200 m² turnkey house priced in PLN
  combstruct estimate --area 200 --storeys 2 --finishing turnkey --locale pl

  # Machine-readable output with CO2 equivalencies
  combstruct estimate --output json --equivalencies

  # Price every scenario in a file
  combstruct batch --file scenarios.yaml --concurrency 8

  # Interactive calculator
  combstruct calculator

  # Serve the HTTP API
  combstruct serve --addr :8080

  # Initialize configuration
  combstruct config init`

// loadConfig builds the process configuration and applies the overlay.
func loadConfig(overlayPath string) error {
	cfg := config.New()
	if overlayPath != "" {
		if err := config.ShallowMergeYAML(cfg, overlayPath); err != nil {
			return fmt.Errorf("applying --config overlay: %w", err)
		}
	}
	config.SetGlobalConfig(cfg)
	return nil
}

// warnConfigLoadError reports a config file that New had to skip.
func warnConfigLoadError(cmd *cobra.Command) {
	cfg := config.GetGlobalConfig()
	err := cfg.LoadError()
	if err == nil {
		return
	}
	logger.Warn().
		Ctx(cmd.Context()).
		Str("operation", "load_config").
		Str("config_path", cfg.ConfigPath()).
		Err(err).
		Msg("config file ignored, using defaults")
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring config file: %v\n", err)
}

// newService builds an estimator from the global configuration.
func newService(equivalencies bool) *estimator.Service {
	cfg := config.GetGlobalConfig()
	return estimator.New(
		estimator.WithStrict(cfg.Estimator.Strict),
		estimator.WithEquivalencies(equivalencies || cfg.Output.Equivalencies),
	)
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
