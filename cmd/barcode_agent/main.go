// Package main provides the entry point for the barcode enrichment CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "barcode_agent",
	Short: "Barcode product enrichment pipeline",
	Long:  "Barcode agent resolves retail barcodes into structured product records through a cascade of lookup sources, generative structuring, and a deterministic local formatter.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
