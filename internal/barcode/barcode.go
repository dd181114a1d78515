// Package barcode provides validation and classification helpers for
// product identifiers (EAN-8, UPC-A, EAN-13, GTIN-14).
package barcode

import (
	"fmt"
	"strings"
)

// validLengths is the set of accepted identifier lengths.
var validLengths = map[int]bool{8: true, 12: true, 13: true, 14: true}

// Normalize strips whitespace and dashes from a raw identifier string.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Valid reports whether s, after normalization, is a structurally valid
// barcode: all digits and one of the accepted lengths.
func Valid(s string) bool {
	s = Normalize(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return validLengths[len(s)]
}

// TypeLabel returns a human-readable label for the barcode format,
// derived from its length.
func TypeLabel(s string) string {
	return fmt.Sprintf("%d-digit barcode", len(Normalize(s)))
}

// CountryOfOrigin infers a country label from the GS1 prefix.
// Prefix 890 is allocated to India; everything else is unresolved.
func CountryOfOrigin(s string) string {
	if strings.HasPrefix(Normalize(s), "890") {
		return "India"
	}
	return "Unknown"
}
