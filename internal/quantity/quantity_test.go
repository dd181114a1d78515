package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value float64
		unit  string
		found bool
	}{
		{"grams attached", "exo round dishwash bar 500g", 500, "g", true},
		{"grams spaced", "net weight 250 g", 250, "g", true},
		{"gram word", "sugar 100gram pouch", 100, "g", true},
		{"milliliters", "shampoo 200ml bottle", 200, "ml", true},
		{"kilograms", "atta 5kg pack", 5, "kg", true},
		{"liters", "cooking oil 1 ltr", 1, "l", true},
		{"pieces", "soap combo 4 pcs", 4, "pc", true},
		{"decimal", "ghee 1.5 kg jar", 1.5, "kg", true},
		{"multipack multiplies", "lux soap 2 x 500g saver pack", 1000, "g", true},
		{"multipack ml", "juice 6 x 200ml", 1200, "ml", true},
		{"gm listing format", "Exo Bar 500 Gm", 500, "g", true},
		{"no quantity", "premium quality product", 0, "", false},
		{"empty", "", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.value, got.Value)
				assert.Equal(t, tt.unit, got.Unit)
			}
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	text := "exo anti-bacterial dishwash bar 2 x 250g ginger twist"
	first, ok1 := Extract(text)
	second, ok2 := Extract(text)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, 500.0, first.Value)
}

func TestExtractSimple(t *testing.T) {
	got, ok := ExtractSimple("Lux Velvet Touch Soap Bar 150G | Buy Online")
	require.True(t, ok)
	assert.Equal(t, 150.0, got.Value)
	assert.Equal(t, "g", got.Unit, "unit is lowercased")

	_, ok = ExtractSimple("barcode database listing")
	assert.False(t, ok)
}
