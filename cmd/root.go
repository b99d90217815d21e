package cmd

import (
	"log/slog"
	"os"

	"github.com/jjenkins/regmonitor/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "regmonitor",
	Short: "Monitor EU legislative procedures for regulatory relevance",
	Long: `regmonitor browses EU legislative procedure records, fetches the latest
legislative proposal of a procedure and asks a language model whether it is
relevant to a company or to a fixed set of regulatory topics.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

// loadConfig reads the configuration and installs the default logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	return cfg, nil
}
