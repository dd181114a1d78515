package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadBarcodes_HeaderDetection(t *testing.T) {
	path := writeCSV(t, "sku,Barcode Number,name\n1,8901030875071,Exo Bar\n2,8901030875088,Vim Bar\n")

	barcodes, err := ReadBarcodes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"8901030875071", "8901030875088"}, barcodes)
}

func TestReadBarcodes_NoHeader(t *testing.T) {
	path := writeCSV(t, "8901030875071\n8901030875088\n")

	barcodes, err := ReadBarcodes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"8901030875071", "8901030875088"}, barcodes)
}

func TestReadBarcodes_UnrecognizedHeaderUsesFirstColumn(t *testing.T) {
	path := writeCSV(t, "id,name\n8901030875071,Exo Bar\n")

	barcodes, err := ReadBarcodes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"8901030875071"}, barcodes)
}

func TestReadBarcodes_BlankAndShortRows(t *testing.T) {
	path := writeCSV(t, "name,barcode\nExo Bar,8901030875071\nmissing,\nVim Bar,8901030875088\n")

	barcodes, err := ReadBarcodes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"8901030875071", "", "8901030875088"}, barcodes)
}

func TestReadBarcodes_MissingFile(t *testing.T) {
	_, err := ReadBarcodes(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
