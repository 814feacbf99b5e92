package cmd

import (
	"fmt"

	"forcectl/internal/auth"

	"github.com/spf13/cobra"
)

// newLoginCmd creates the Cobra command for interactive authentication.
func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate to your org",
		Long: `Authenticate to your org using the OAuth2 user-agent flow.

A browser window opens at the org's login page; once you sign in, the
credentials are captured from the redirect and stored locally. If a
stored refresh token is still valid, it is used instead and no browser
opens.`,
		RunE: runLogin,
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	set, err := buildClientSet()
	if err != nil {
		return err
	}
	defer set.Close()

	var rec *auth.Authorization
	err = withSpinner("Waiting for sign-in to complete...", func() error {
		var authErr error
		rec, authErr = set.coordinator.Authorize(cmd.Context())
		return authErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as user %s (org %s)\n", rec.UserID(), rec.OrgID())
	return nil
}
