package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var countCommand = &cobra.Command{
	Use:   "count [file]",
	Short: "Count the records in a JSON array file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  countCmd,
}

func init() {
	rootCmd.AddCommand(countCommand)
}

func countCmd(_ *cobra.Command, args []string) error {
	path := filepath.Join("output", "products.json")
	if len(args) > 0 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse %s: not a JSON array: %w", path, err)
	}

	fmt.Fprintf(os.Stdout, "%s: %d records\n", path, len(records))
	return nil
}
