package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/datacarts/barcode-enricher/internal/types"
)

var reportCommand = &cobra.Command{
	Use:   "report [file]",
	Short: "Summarize a products file by category and product line",
	Long: `Groups enriched products by Category and by ProductLine, prints a
summary, and exports the groupings as JSON and CSV next to the input file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: reportCmd,
}

func init() {
	rootCmd.AddCommand(reportCommand)
}

// grouping is one bucket of the report: the products that share a
// category or product line value.
type grouping struct {
	Count    int      `json:"count"`
	Products []string `json:"products"`
}

func reportCmd(_ *cobra.Command, args []string) error {
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

	byCategory := groupBy(products, func(p *types.ProductRecord) string { return p.Category })
	byLine := groupBy(products, func(p *types.ProductRecord) string { return p.ProductLine })

	printGroups("CATEGORIES", byCategory, len(products))
	printGroups("PRODUCT LINES", byLine, len(products))

	dir := filepath.Dir(path)
	exports := []struct {
		name   string
		groups map[string]*grouping
	}{
		{"category", byCategory},
		{"productline", byLine},
	}
	for _, e := range exports {
		jsonPath := filepath.Join(dir, e.name+"_products.json")
		if err := writeJSONFile(jsonPath, e.groups); err != nil {
			return err
		}
		csvPath := filepath.Join(dir, e.name+"_summary.csv")
		if err := writeSummaryCSV(csvPath, e.groups); err != nil {
			return err
		}
		fmt.Printf("Exported %s and %s\n", jsonPath, csvPath)
	}
	return nil
}

func groupBy(products []types.ProductRecord, key func(*types.ProductRecord) string) map[string]*grouping {
	groups := make(map[string]*grouping)
	for i := range products {
		k := key(&products[i])
		if k == "" {
			k = "Unknown"
		}
		g, ok := groups[k]
		if !ok {
			g = &grouping{}
			groups[k] = g
		}
		g.Count++
		g.Products = append(g.Products, products[i].ProductName)
	}
	return groups
}

func printGroups(title string, groups map[string]*grouping, total int) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	// Largest groups first, ties alphabetical.
	sort.Slice(names, func(i, j int) bool {
		if groups[names[i]].Count != groups[names[j]].Count {
			return groups[names[i]].Count > groups[names[j]].Count
		}
		return names[i] < names[j]
	})

	fmt.Printf("\n%s (%d groups, %d products)\n", title, len(groups), total)
	for _, name := range names {
		fmt.Printf("  %-30s %d\n", name, groups[name].Count)
	}
}

func writeSummaryCSV(path string, groups map[string]*grouping) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"group", "count"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.Write([]string{name, strconv.Itoa(groups[name].Count)}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
