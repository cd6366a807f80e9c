// Package cli provides the command-line interface for SummarizeTube.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	cfgFile string
	verbose bool

	// buildServices is replaced in tests.
	buildServices = defaultServices
)

var rootCmd = &cobra.Command{
	Use:   "tubesum",
	Short: "Summarize YouTube videos and chat about them",
	Long: `tubesum fetches a YouTube video's transcript, asks a language model for
a summary, renders a word cloud of it and lets you ask follow-up
questions in an interactive chat.

Configuration is read from config.yaml (see --config) and the
SUMMARIZETUBE_* environment variables. The model credential comes from
GOOGLE_API_KEY or OPENAI_API_KEY depending on the provider.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func defaultServices(ctx context.Context) (*services.Services, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := config.NewLogger(cfg.Logging)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if logger.GetLevel() > logrus.WarnLevel {
		// Keep info logs off the terminal unless asked for.
		logger.SetLevel(logrus.WarnLevel)
	}

	return services.NewServices(ctx, cfg, logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(wordcloudCmd)
	rootCmd.AddCommand(referenceCmd)
}
