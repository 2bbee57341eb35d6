package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "analytics-service",
	Short: "Whop analytics dashboard backend",
	Long:  "Backend service that aggregates Whop membership and payment data into dashboard metrics.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
