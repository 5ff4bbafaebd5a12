package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/app"
	"github.com/Rorical/FolioChat/internal/config"
	"github.com/Rorical/FolioChat/internal/logging"
)

var (
	cfgFile    string
	backendURL string
	verbose    bool
	timestamps bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "foliochat",
	Short: "Chat with a portfolio's AI assistant",
	Long: `FolioChat is a terminal client for a portfolio site's AI assistant.
Ask about projects, skills or experience; replies are formatted in place.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if timestamps {
			cfg.Timestamps = true
		}

		application, err := app.NewApplication(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		defer application.Stop()

		return application.Start()
	},
}

// setup loads the configuration and logger shared by every command. The
// interactive chat owns the terminal, so it always logs to a file.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}

	logPath := cfg.LogFile
	if logPath == "" && cmd == rootCmd {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
		logPath = filepath.Join(dir, "foliochat.log")
	}

	logger, err = logging.New(cfg.LogLevel, logPath, verbose)
	return err
}

func Execute() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd,
	// which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.foliochat/config.json)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "override the backend URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().BoolVar(&timestamps, "timestamps", false, "show message times")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
