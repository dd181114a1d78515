// Package types provides type definitions for structured data used
// throughout the barcode enrichment system.
package types

// RawCandidate is the intermediate record produced by a source client
// before structuring. All fields are optional; a candidate counts as
// "found" only when it carries a non-empty name.
type RawCandidate struct {
	Name          string  `json:"name,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	Description   string  `json:"description,omitempty"`
	Ingredients   string  `json:"ingredients,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	QuantityValue float64 `json:"quantity_value,omitempty"`
	QuantityUnit  string  `json:"quantity_unit,omitempty"`
	SourceURL     string  `json:"source_url,omitempty"`
	Snippet       string  `json:"snippet,omitempty"`
	SourceName    string  `json:"source,omitempty"`
}

// Found reports whether the candidate carries enough signal to be worth
// structuring.
func (c *RawCandidate) Found() bool {
	return c != nil && c.Name != ""
}
