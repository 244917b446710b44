package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := openClientSet()
		if err != nil {
			return err
		}
		defer cs.Close()

		user := cs.manager.Restore(cmd.Context(), cs.refresh)
		state := cs.manager.State()
		fmt.Printf("State:    %s\n", state)
		if user == nil {
			return nil
		}

		fmt.Printf("User:     %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
		fmt.Printf("Role:     %s\n", user.Role)
		if remaining := cs.manager.Tokens().RemainingMinutes(); remaining > 0 {
			fmt.Printf("Token:    valid for %d more minutes\n", remaining)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
