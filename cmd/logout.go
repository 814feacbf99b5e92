package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLogoutCmd creates the Cobra command for removing stored credentials.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials for the current user",
		RunE:  runLogout,
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	set, err := buildClientSet()
	if err != nil {
		return err
	}
	defer set.Close()

	key, ok := set.store.LastKey()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := set.store.Delete(key); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	fmt.Printf("Logged out user %s (org %s)\n", key.UserID, key.OrgID)
	return nil
}
