package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labelscan/internal/app"
	"labelscan/internal/config"
	"labelscan/internal/logger"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration

	// fs backs credential files, label images and the written archive.
	fs afero.Fs = afero.NewOsFs()

	// buildApp is replaced in tests.
	buildApp = func(cfg *config.Config, zl *zap.Logger) (*app.App, error) {
		return app.New(cfg, fs, zl)
	}

	application *app.App
	zl          *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "labelctl",
	Short: "Extract text from specimen-label images with a generative vision model",
	Long: `labelctl sends specimen-label photographs to the configured vision model
and packages the extracted text as JSON documents in a zip archive.

Configuration is read from LABELSCAN_* environment variables and an optional
.env file. The API key is taken from the newest versioned key file
(LABELSCAN_CREDENTIAL_DIR, prefix .env_ by default).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// Progress goes to stdout; keep the log quiet unless asked.
		if verbose {
			cfg.Log.Level = "debug"
		} else if os.Getenv("LABELSCAN_LOG_LEVEL") == "" {
			cfg.Log.Level = "warn"
		}

		zl, err = logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		application, err = buildApp(cfg, zl)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zl != nil {
			_ = zl.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "Overall operation timeout")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(promptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
