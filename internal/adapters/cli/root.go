// Package cli implements the Cobra-based command-line interface of dactl.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/config"
	"github.com/forge-platform/dactl/internal/core/ports"
	"github.com/forge-platform/dactl/internal/core/services"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger ports.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dactl",
	Short: "dactl - Autodesk Design Automation toolkit",
	Long: `dactl automates the Autodesk Design Automation (APS) REST API:
minting OAuth tokens, registering and uploading app bundles, creating
activities and aliases, editing parameter documents, and submitting and
watching work items.

Client credentials are read from DACTL_AUTH_CLIENT_ID and
DACTL_AUTH_CLIENT_SECRET (a local .env file works too), or from the
config file written by 'dactl configure'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. The returned error carries the process
// exit code; unwrap it with ExitCode in main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dactl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(paramCmd)
	rootCmd.AddCommand(workItemCmd)
	rootCmd.AddCommand(appBundleCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(nicknameCmd)
	rootCmd.AddCommand(historyCmd)
}

// initialize loads the configuration and builds the logger shared by all
// commands.
func initialize() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Core.LogLevel
	if verbose {
		level = "debug"
	}
	logger = services.NewSlogLogger(level, cfg.Core.LogJSON)
	return nil
}

// getConfigDir returns the dactl configuration directory.
func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dactl"), nil
}

// ensureConfigDir creates the configuration directory if it doesn't exist.
func ensureConfigDir() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// requireCredentials fails early when the client credentials are missing,
// before any request goes out.
func requireCredentials() error {
	if cfg.Auth.ClientID == "" || cfg.Auth.ClientSecret == "" {
		return fmt.Errorf("client credentials are not configured; set DACTL_AUTH_CLIENT_ID and DACTL_AUTH_CLIENT_SECRET or run 'dactl configure'")
	}
	return nil
}
