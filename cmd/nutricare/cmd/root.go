package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nutricare",
	Short: "NutriCare is a clinical nutrition toolkit",
	Long: `Command-line client for the NutriCare clinical nutrition service.
Manages the local session, queries nutrition reference data, and can run
a self-contained development server.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.nutricare/config.yaml)")
}
