// ABOUTME: Entry point for the tiers CLI
// ABOUTME: Executes the root command and reports errors

package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
