package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"ean13", "8901030875071", true},
		{"ean8", "12345678", true},
		{"upca", "036000291452", true},
		{"gtin14", "10012345678902", true},
		{"too short", "1234567", false},
		{"too long", "123456789012345", false},
		{"nine digits", "123456789", false},
		{"letters", "89010308750AB", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"embedded space normalized", " 8901030875071 ", true},
		{"dashes normalized", "890-1030-875071", true},
		{"decimal point", "8901030875.71", false},
		{"negative", "-8901030875071", true}, // leading dash stripped by Normalize
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input), "Valid(%q)", tt.input)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "8901030875071", Normalize("  890-1030-875071 "))
	assert.Equal(t, "12345678", Normalize("1234 5678"))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "13-digit barcode", TypeLabel("8901030875071"))
	assert.Equal(t, "8-digit barcode", TypeLabel("12345678"))
}

func TestCountryOfOrigin(t *testing.T) {
	assert.Equal(t, "India", CountryOfOrigin("8901030875071"))
	assert.Equal(t, "Unknown", CountryOfOrigin("0360002914528"))
}
