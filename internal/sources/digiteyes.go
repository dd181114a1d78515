package sources

import (
	"context"
	"net/url"

	"github.com/datacarts/barcode-enricher/internal/fetch"
	"github.com/datacarts/barcode-enricher/internal/quantity"
	"github.com/datacarts/barcode-enricher/internal/types"
)

// DigitEyesURL is the GTIN lookup endpoint.
const DigitEyesURL = "https://www.digit-eyes.com/gtin/v2_0"

// DigitEyes is the specialty GTIN lookup, the last source in the cascade.
type DigitEyes struct {
	AppKey    string
	Signature string
	BaseURL   string
	Options   *fetch.Options
}

// NewDigitEyes creates the adapter with the given API credentials.
func NewDigitEyes(appKey, signature string, opts *fetch.Options) *DigitEyes {
	return &DigitEyes{AppKey: appKey, Signature: signature, BaseURL: DigitEyesURL, Options: opts}
}

// Name implements Client.
func (d *DigitEyes) Name() string { return "DigiTeyes" }

// digitEyesResponse is the subset of the DigiTeyes payload we read.
type digitEyesResponse struct {
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Image       string `json:"image"`
	Packaging   string `json:"packaging"`
}

// Lookup implements Client.
func (d *DigitEyes) Lookup(ctx context.Context, barcode string) (*types.RawCandidate, error) {
	params := url.Values{}
	params.Set("upcCode", barcode)
	params.Set("app_key", d.AppKey)
	params.Set("signature", d.Signature)
	params.Set("language", "en")

	var resp digitEyesResponse
	if err := fetch.GetJSON(ctx, d.BaseURL+"?"+params.Encode(), &resp, d.Options); err != nil {
		return nil, err
	}

	if resp.Description == "" {
		return nil, nil
	}

	candidate := &types.RawCandidate{
		Name:        resp.Description,
		Brand:       resp.Brand,
		Description: resp.Description,
		ImageURL:    resp.Image,
		SourceName:  d.Name(),
	}

	if q, ok := quantity.ExtractSimple(resp.Packaging); ok {
		candidate.QuantityValue = q.Value
		candidate.QuantityUnit = q.Unit
	}

	return candidate, nil
}
