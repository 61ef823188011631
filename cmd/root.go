package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jjenkins/parlamentar/internal/config"
	"github.com/jjenkins/parlamentar/internal/logger"
)

var (
	configPath string
	logMode    string
)

var rootCmd = &cobra.Command{
	Use:   "parlamentar",
	Short: "Parliamentary data API for the Brazilian Chamber of Deputies",
	Long: `parlamentar serves deputies, expenditures, bills and votes of the
Câmara dos Deputados over HTTP, with rankings and summaries built on top
of the open-data API (dadosabertos.camara.leg.br).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "Log mode: development or production")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and validates the configuration and builds the logger
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logMode != "" {
		cfg.LogMode = logMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}
