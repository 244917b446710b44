package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := openClientSet()
		if err != nil {
			return err
		}
		defer cs.Close()

		// Best-effort server notification; local teardown happens regardless.
		if err := cs.client.Logout(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", err)
		}
		if err := cs.manager.RemoveSession(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}

		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
