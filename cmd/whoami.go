package cmd

import (
	"errors"
	"fmt"

	"forcectl/internal/rest"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// newWhoamiCmd creates the Cobra command for showing the authenticated user.
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Long: `Show the identity of the currently authenticated user.

This is a login probe: it never opens a browser. If no valid credential
is stored, it reports that authentication is required and exits with a
non-zero status.`,
		RunE: runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, args []string) error {
	set, err := buildClientSet()
	if err != nil {
		return err
	}
	defer set.Close()

	identity, err := set.client.Identity(cmd.Context(), rest.Options{SuppressAuthentication: true})
	if err != nil {
		if errors.Is(err, rest.ErrUnauthorized) {
			fmt.Printf("Status:   %s\n", text.FgYellow.Sprint("Not authenticated"))
			fmt.Println("          Run: forcectl login")
		}
		return err
	}

	fmt.Printf("Status:   %s\n", text.FgGreen.Sprint("Authenticated"))
	fmt.Printf("User:     %s (%s)\n", identity.DisplayName, identity.Username)
	fmt.Printf("User ID:  %s\n", identity.UserID)
	fmt.Printf("Org ID:   %s\n", identity.OrgID)
	if !identity.LastModifiedDate.IsZero() {
		fmt.Printf("Modified: %s\n", identity.LastModifiedDate.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
