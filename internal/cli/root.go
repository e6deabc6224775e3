// Package cli provides the command-line interface for kheops-client.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hirsch-lab/kheops-client/internal/config"
	"github.com/hirsch-lab/kheops-client/internal/logging"
)

var (
	// Global flags
	cfgFile    string
	apiURL     string
	token      string
	verbosity  int
	noProgress bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version information - set by main package at startup.
var (
	Version   = "v1.0.0-dev"
	BuildTime = "unknown"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kheops-client",
		Short: "Client for a Kheops DICOMweb repository",
		Long: `kheops-client ` + Version + ` - Built: ` + BuildTime + `
List and download studies and series from a Kheops DICOM repository
through its DICOMweb API (QIDO-RS / WADO-RS).

The repository URL is set with --url. An access token is required and
can be passed with --token, the environment variable ACCESS_TOKEN, or
the config file (~/.config/kheops/clientconfig).

More about tokens: https://docs.kheops.online/docs/tokens`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbosity(verbosity)
			logger = logging.NewDefaultLogger()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&apiURL, "url", "u", "", "URL of the DICOMweb API")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Access token for the repository (default: $ACCESS_TOKEN)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&noProgress, "no-progress", "q", false, "Disable progress bars")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context is cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig resolves the client configuration from flags, environment
// and config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, apiURL, token)
	if err != nil {
		return nil, err
	}
	cfg.ShowProgress = !noProgress
	cfg.Verbosity = verbosity
	return cfg, nil
}
