package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacarts/barcode-enricher/internal/types"
)

func writeProducts(t *testing.T, records []types.ProductRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	data, err := json.MarshalIndent(records, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readProducts(t *testing.T, path string) []types.ProductRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []types.ProductRecord
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestCleanCmd_SplitsUnknownProducts(t *testing.T) {
	path := writeProducts(t, []types.ProductRecord{
		{Barcode: "8901030875071", ProductName: "Exo Bar", Brand: "Exo", Category: "Household", DataSource: "OpenFoodFacts"},
		{Barcode: "8901030875088", ProductName: "Unknown Product 8901030875088", DataSource: "No Data Found"},
	})

	require.NoError(t, cleanCmd(nil, []string{path}))

	kept := readProducts(t, path)
	require.Len(t, kept, 1)
	assert.Equal(t, "Exo Bar", kept[0].ProductName)

	moved := readProducts(t, filepath.Join(filepath.Dir(path), "products_not_found.json"))
	require.Len(t, moved, 1)
	assert.Equal(t, "8901030875088", moved[0].Barcode)
}

func TestCleanCmd_NothingToClean(t *testing.T) {
	path := writeProducts(t, []types.ProductRecord{
		{Barcode: "8901030875071", ProductName: "Exo Bar", Brand: "Exo", Category: "Household", DataSource: "OpenFoodFacts"},
	})

	require.NoError(t, cleanCmd(nil, []string{path}))

	_, err := os.Stat(filepath.Join(filepath.Dir(path), "products_not_found.json"))
	assert.True(t, os.IsNotExist(err), "no not-found file when nothing moved")
}

func TestReportCmd_ExportsGroupings(t *testing.T) {
	path := writeProducts(t, []types.ProductRecord{
		{Barcode: "1", ProductName: "Exo Bar", Category: "Household", ProductLine: "Exo Dishwashing Products"},
		{Barcode: "2", ProductName: "Vim Bar", Category: "Household", ProductLine: "Vim Dishwashing Products"},
		{Barcode: "3", ProductName: "Saffola Oil", Category: "Food & Beverages", ProductLine: "Saffola Cooking Oil Products"},
	})

	require.NoError(t, reportCmd(nil, []string{path}))

	dir := filepath.Dir(path)
	data, err := os.ReadFile(filepath.Join(dir, "category_products.json"))
	require.NoError(t, err)

	var groups map[string]*grouping
	require.NoError(t, json.Unmarshal(data, &groups))
	assert.Equal(t, 2, groups["Household"].Count)
	assert.Equal(t, 1, groups["Food & Beverages"].Count)

	csvData, err := os.ReadFile(filepath.Join(dir, "productline_summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "group,count")
	assert.Contains(t, string(csvData), "Exo Dishwashing Products,1")
}

func TestCountCmd(t *testing.T) {
	path := writeProducts(t, []types.ProductRecord{{Barcode: "1"}, {Barcode: "2"}})
	assert.NoError(t, countCmd(nil, []string{path}))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0o644))
	assert.Error(t, countCmd(nil, []string{bad}))
}
