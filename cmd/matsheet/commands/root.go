// Package commands implements the matsheet CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/polymerlab/matsheet/internal/config"
	"github.com/polymerlab/matsheet/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "matsheet",
	Short: "Material datasheet extraction pipeline",
	Long: `matsheet turns vendor material datasheets (saved HTML pages and PDF files)
into structured property records: extraction with unit normalization and
validation, cross-source merging, and instruction-dataset generation.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration, letting --verbose lower the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger creates the pipeline logger from the loaded configuration.
func newLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "matsheet",
	})
}
