package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datacarts/barcode-enricher/internal/types"
)

var cleanCommand = &cobra.Command{
	Use:   "clean [file]",
	Short: "Remove unknown products from a products file",
	Long: `Splits a products JSON file into resolved and unknown entries. The
original file is rewritten with only resolved products; unknown entries are
appended to a sibling file named <file>_not_found.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: cleanCmd,
}

func init() {
	rootCmd.AddCommand(cleanCommand)
}

func cleanCmd(_ *cobra.Command, args []string) error {
	path := filepath.Join("output", "products.json")
	if len(args) > 0 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var products []types.ProductRecord
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	var kept, unknown []types.ProductRecord
	for _, p := range products {
		record := p
		if record.IsUnknown() {
			unknown = append(unknown, record)
		} else {
			kept = append(kept, record)
		}
	}

	if len(unknown) == 0 {
		fmt.Printf("No unknown products in %s (%d records)\n", path, len(products))
		return nil
	}

	notFoundPath := strings.TrimSuffix(path, ".json") + "_not_found.json"

	// Append to any existing not-found file rather than clobbering it.
	var existing []types.ProductRecord
	if prev, err := os.ReadFile(notFoundPath); err == nil {
		_ = json.Unmarshal(prev, &existing)
	}
	existing = append(existing, unknown...)

	if err := writeJSONFile(path, kept); err != nil {
		return err
	}
	if err := writeJSONFile(notFoundPath, existing); err != nil {
		return err
	}

	fmt.Printf("Kept %d products in %s\n", len(kept), path)
	fmt.Printf("Moved %d unknown products to %s\n", len(unknown), notFoundPath)
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
