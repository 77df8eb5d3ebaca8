// Package main provides the entry point for the manuscript editor: an
// interactive terminal wizard and an HTTP API over the same stage controller.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manuscript_editor",
	Short: "Medical manuscript editing assistant",
	Long: "Manuscript Editor turns a rough clinical draft into a publication-ready manuscript in five stages: " +
		"draft, title selection, pre-paper, simulated peer review and the revised final paper.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
