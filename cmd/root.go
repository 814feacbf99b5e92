package cmd

import (
	"errors"
	"os"

	"forcectl/internal/auth"
	"forcectl/internal/logging"
	"forcectl/internal/rest"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can branch on authentication failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the authorization flow failed.
	ExitCodeAuthFailed = 3
)

// Global flags shared by all subcommands.
var (
	configPath string
	logLevel   string
)

// rootCmd represents the base command for the forcectl application.
var rootCmd = &cobra.Command{
	Use:   "forcectl",
	Short: "Work with your Salesforce org from the terminal",
	Long: `forcectl authenticates to a Salesforce org through the OAuth2
user-agent flow and runs authenticated REST requests against it.
Credentials are stored locally and refreshed or re-acquired
automatically when they expire.`,
	// SilenceUsage prevents Cobra from printing the usage message on
	// errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(logLevel, os.Stderr)
	},
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "forcectl version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	if errors.Is(err, rest.ErrUnauthorized) {
		return ExitCodeAuthRequired
	}
	if errors.Is(err, auth.ErrAuthorizationCanceled) {
		return ExitCodeAuthFailed
	}
	var malformed *auth.MalformedResponseError
	if errors.As(err, &malformed) {
		return ExitCodeAuthFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/forcectl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newQueryCmd())
}
