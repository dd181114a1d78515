// Package structuring turns raw LLM completion text into a validated
// product entry. Models drift from strict JSON often enough that the
// parser runs an escalating series of repair passes before giving up.
package structuring

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/datacarts/barcode-enricher/internal/types"
)

//go:embed schema.json
var productSchema string

// ParseError reports that no repair pass yielded usable JSON.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("structuring: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("structuring: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Enhanced is the subset of a product entry a model is asked to fill
// in. The spaced JSON keys match the output file format.
type Enhanced struct {
	Barcode       string            `json:"Barcode"`
	Name          string            `json:"Product Name"`
	Brand         string            `json:"Brand"`
	Description   string            `json:"Description"`
	Category      string            `json:"Category"`
	Subcategory   string            `json:"Subcategory"`
	ProductLine   string            `json:"ProductLine"`
	Quantity      float64           `json:"Quantity"`
	Unit          string            `json:"Unit"`
	Features      []string          `json:"Features"`
	Specification map[string]string `json:"Specification"`
}

// Parse extracts a product entry from completion text. It tries the
// text as-is, then with conservative repairs, then aggressive ones.
// A result without a product name is rejected even when the JSON
// parses, since a nameless entry is useless downstream.
func Parse(text string) (*Enhanced, error) {
	candidate := extractObject(stripFence(text))
	if candidate == "" {
		return nil, &ParseError{Message: "empty completion"}
	}

	stages := []string{
		candidate,
		conservativeRepair(candidate),
		aggressiveRepair(conservativeRepair(candidate)),
	}

	var lastErr error
	for _, stage := range stages {
		enhanced, err := decode(stage)
		if err != nil {
			lastErr = err
			continue
		}
		return enhanced, nil
	}
	return nil, &ParseError{Message: "no repair pass produced valid JSON", Cause: lastErr}
}

func decode(text string) (*Enhanced, error) {
	if err := validate(text); err != nil {
		return nil, err
	}

	var enhanced Enhanced
	if err := json.Unmarshal([]byte(text), &enhanced); err != nil {
		return nil, err
	}
	if enhanced.Name == "" {
		return nil, fmt.Errorf("missing product name")
	}
	return &enhanced, nil
}

// validate checks the candidate text against the embedded schema.
func validate(text string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(productSchema),
		gojsonschema.NewStringLoader(text),
	)
	if err != nil {
		return err
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("schema violation at %s: %s", errs[0].Field(), errs[0].Description())
		}
		return fmt.Errorf("schema violation")
	}
	return nil
}

// Merge folds the enhanced fields into a product record, keeping the
// record's fields wherever the model left one empty.
func Merge(record *types.ProductRecord, enhanced *Enhanced) {
	if enhanced.Name != "" {
		record.ProductName = enhanced.Name
	}
	if enhanced.Brand != "" {
		record.Brand = enhanced.Brand
	}
	if enhanced.Description != "" {
		record.Description = enhanced.Description
	}
	if enhanced.Category != "" {
		record.Category = enhanced.Category
	}
	if enhanced.Subcategory != "" {
		record.Subcategory = enhanced.Subcategory
	}
	if enhanced.ProductLine != "" {
		record.ProductLine = enhanced.ProductLine
	}
	if enhanced.Quantity > 0 {
		record.Quantity = enhanced.Quantity
	}
	if enhanced.Unit != "" {
		record.Unit = enhanced.Unit
	}
	if len(enhanced.Features) > 0 {
		record.Features = enhanced.Features
	}
	if len(enhanced.Specification) > 0 {
		record.Specification = enhanced.Specification
	}
}
