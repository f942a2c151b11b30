package main

import (
	"fmt"
	"os"

	"github.com/AdithyaSM31/FloatChart-AI/internal/config"
	"github.com/AdithyaSM31/FloatChart-AI/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "floatctl",
	Short:         "Command-line tools for the FloatChart ARGO backend",
	Long:          `floatctl loads ARGO float data into PostgreSQL, fills the vector index and answers questions with the same pipeline as the HTTP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		// stdout carries command output and the MCP protocol
		logging.Setup(os.Stderr, loaded.Log.Level, "text")
		cfg = loaded
		return nil
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("FLOATCHART_CONFIG"), "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}
