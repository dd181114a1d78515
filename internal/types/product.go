package types

import "strings"

// Sentinel values used by the unknown-product predicate. These mirror the
// placeholders the generative prompt forbids and the fallback paths emit.
const (
	UnknownProductPrefix = "Unknown Product"
	UnknownValue         = "Unknown"
	NoDataSource         = "No Data Found"
	FailurePhrase        = "Could not find information"
	SentinelFeature      = "Information not available"
)

// ProductRecord is the final persisted shape of an enriched product.
// The JSON keys are part of the output contract and must not change.
type ProductRecord struct {
	Barcode       string            `json:"Barcode"`
	ProductName   string            `json:"Product Name"`
	Brand         string            `json:"Brand"`
	Description   string            `json:"Description"`
	Category      string            `json:"Category"`
	Subcategory   string            `json:"Subcategory"`
	ProductLine   string            `json:"ProductLine"`
	Quantity      float64           `json:"Quantity"`
	Unit          string            `json:"Unit"`
	Features      []string          `json:"Features"`
	Specification map[string]string `json:"Specification"`
	ProductImage  string            `json:"Product Image"`
	DataSource    string            `json:"Data Source"`
	Timestamp     string            `json:"Timestamp"`
}

// IsUnknown reports whether the record should be routed to the unresolved
// ledger instead of the primary collection.
func (r *ProductRecord) IsUnknown() bool {
	if r == nil {
		return true
	}
	if strings.HasPrefix(r.ProductName, UnknownProductPrefix) {
		return true
	}
	if r.Brand == UnknownValue || r.Category == UnknownValue {
		return true
	}
	if r.DataSource == NoDataSource {
		return true
	}
	if strings.HasPrefix(r.Description, FailurePhrase) {
		return true
	}
	for _, f := range r.Features {
		if f == SentinelFeature {
			return true
		}
	}
	return false
}
