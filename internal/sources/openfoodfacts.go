package sources

import (
	"context"
	"strings"

	"github.com/datacarts/barcode-enricher/internal/fetch"
	"github.com/datacarts/barcode-enricher/internal/quantity"
	"github.com/datacarts/barcode-enricher/internal/types"
)

// OpenFoodFacts looks up barcodes in the Open Food Facts database by
// direct key fetch. It is the first source in the cascade.
type OpenFoodFacts struct {
	BaseURL string
	Options *fetch.Options
}

// NewOpenFoodFacts creates the adapter. baseURL must end with the product
// path prefix; the barcode and ".json" are appended per lookup.
func NewOpenFoodFacts(baseURL string, opts *fetch.Options) *OpenFoodFacts {
	return &OpenFoodFacts{BaseURL: baseURL, Options: opts}
}

// Name implements Client.
func (o *OpenFoodFacts) Name() string { return "OpenFoodFacts" }

// offResponse is the subset of the Open Food Facts payload we read.
type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string `json:"product_name"`
		Brands          string `json:"brands"`
		GenericName     string `json:"generic_name"`
		IngredientsText string `json:"ingredients_text"`
		ImageURL        string `json:"image_url"`
		Quantity        string `json:"quantity"`
	} `json:"product"`
}

// Lookup implements Client.
func (o *OpenFoodFacts) Lookup(ctx context.Context, barcode string) (*types.RawCandidate, error) {
	url := strings.TrimSuffix(o.BaseURL, "/") + "/" + barcode + ".json"

	var resp offResponse
	if err := fetch.GetJSON(ctx, url, &resp, o.Options); err != nil {
		return nil, err
	}

	if resp.Status != 1 || resp.Product.ProductName == "" {
		return nil, nil
	}

	candidate := &types.RawCandidate{
		Name:        resp.Product.ProductName,
		Brand:       resp.Product.Brands,
		Description: resp.Product.GenericName,
		Ingredients: resp.Product.IngredientsText,
		ImageURL:    resp.Product.ImageURL,
		SourceName:  o.Name(),
	}

	if q, ok := quantity.ExtractSimple(resp.Product.Quantity); ok {
		candidate.QuantityValue = q.Value
		candidate.QuantityUnit = q.Unit
	}

	return candidate, nil
}
