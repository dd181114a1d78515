package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacarts/barcode-enricher/internal/types"
)

func record(barcode, name string) *types.ProductRecord {
	return &types.ProductRecord{
		Barcode:     barcode,
		ProductName: name,
		Brand:       "Exo",
		Category:    "Household",
		DataSource:  "OpenFoodFacts",
	}
}

func TestSaveProduct_UpsertByBarcode(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.SaveProduct(record("8901030875071", "Exo Bar")))
	require.NoError(t, s.SaveProduct(record("8901030875088", "Vim Bar")))
	require.NoError(t, s.SaveProduct(record("8901030875071", "Exo Round Bar")))

	assert.Equal(t, 2, s.ProductCount())

	data, err := os.ReadFile(filepath.Join(dir, ProductsFile))
	require.NoError(t, err)

	var stored []types.ProductRecord
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "Exo Round Bar", stored[0].ProductName, "upsert replaces in place")
}

func TestSaveProduct_RoutesUnknownToLedger(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	unknown := record("8901030875071", "Unknown Product 8901030875071")
	require.NoError(t, s.SaveProduct(unknown))

	assert.Equal(t, 0, s.ProductCount())
	assert.Equal(t, 1, s.NotFoundCount())
	assert.False(t, s.HasProduct("8901030875071"))
}

func TestLedger_AttemptsAndReasons(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.MarkNotFound("8901030875071", "no source data"))
	require.NoError(t, s.MarkNotFound("8901030875071", "no source data"))
	require.NoError(t, s.MarkNotFound("8901030875071", "resolved to unknown product"))

	data, err := os.ReadFile(filepath.Join(dir, NotFoundFile))
	require.NoError(t, err)

	var entries []types.LedgerEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.ElementsMatch(t, []string{"no source data", "resolved to unknown product"}, entries[0].Reasons)
	assert.False(t, entries[0].LastSeen.Before(entries[0].FirstSeen))
}

func TestOpen_ReloadsState(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveProduct(record("8901030875071", "Exo Bar")))
	require.NoError(t, s.MarkInvalid("12ab", "non-digit characters"))

	reopened, err := Open(dir)
	require.NoError(t, err)
	assert.True(t, reopened.HasProduct("8901030875071"))
	assert.True(t, reopened.HasInvalid("12ab"))
	assert.Equal(t, 1, reopened.InvalidCount())

	last := reopened.LastProduct()
	require.NotNil(t, last)
	assert.Equal(t, "Exo Bar", last.ProductName)
}

func TestOpen_CorruptProductsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProductsFile), []byte("{not json"), 0o644))

	_, err := Open(dir)
	require.Error(t, err)

	var storeErr *Error
	assert.ErrorAs(t, err, &storeErr)
	assert.Equal(t, ProductsFile, storeErr.File)
}
