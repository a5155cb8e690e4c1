// Package main provides the entry point for the Easy Apply agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "easyapply_agent",
	Short: "LinkedIn Easy Apply automation agent",
	Long:  "Easy Apply agent signs into LinkedIn, searches job listings with the Easy Apply filter, submits applications up to a session cap, and writes a JSON report of the run.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
