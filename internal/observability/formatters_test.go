package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/datacarts/barcode-enricher/internal/llm"
	"github.com/datacarts/barcode-enricher/internal/types"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(&Summary{
		State:          "completed",
		Processed:      10,
		Succeeded:      7,
		Errored:        2,
		SkippedInvalid: 1,
		Elapsed:        90 * time.Second,
	})

	out := buf.String()
	assert.Contains(t, out, "BATCH SUMMARY")
	assert.Contains(t, out, "Processed:        10")
	assert.Contains(t, out, "Elapsed:          1m30s")
	assert.True(t, strings.HasPrefix(out, "┌"))
}

func TestPrintSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintProviderHealth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProviderHealth([]llm.ProviderHealth{
		{Name: "Gemini"},
		{Name: "OpenAI", Disabled: true, DisabledReason: "auth", ConsecutiveFailures: 1, LastError: "invalid key"},
	})

	out := buf.String()
	assert.Contains(t, out, "PROVIDER HEALTH")
	assert.Contains(t, out, "available")
	assert.Contains(t, out, "disabled (auth)")
	assert.Contains(t, out, "invalid key")
}

func TestPrintProduct(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProduct(&types.ProductRecord{
		Barcode:     "8901030875071",
		ProductName: "Exo Round Dishwash Bar",
		Brand:       "Exo",
		Category:    "Household",
		Subcategory: "Dishwashing",
		Quantity:    500,
		Unit:        "g",
		DataSource:  "OpenFoodFacts",
		Features:    []string{"a", "b", "c", "d", "e", "f", "g"},
	})

	out := buf.String()
	assert.Contains(t, out, "ENRICHED PRODUCT")
	assert.Contains(t, out, "Household / Dishwashing")
	assert.Contains(t, out, "500 g")
	assert.Contains(t, out, "... and 2 more")
}
