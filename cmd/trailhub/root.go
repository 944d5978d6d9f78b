package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trailhub",
	Short: "trailhub is a REST API for trails, trailheads and users",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; real deployments set the
		// environment directly.
		_ = godotenv.Load()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
