package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/datacarts/barcode-enricher/internal/quantity"
	"github.com/datacarts/barcode-enricher/internal/types"
)

// maxResultsPerQuery caps how many search hits are considered per query.
const maxResultsPerQuery = 5

// ecommerceSites marks domains whose listings usually name the product.
var ecommerceSites = []string{
	"amazon", "flipkart", "bigbasket", "grofers", "nykaa",
	"tatacliq", "jiomart", "walmart", "target", "shop",
}

// unitTokens are quantity-unit words that suggest a product listing title.
var unitTokens = map[string]bool{
	"g": true, "kg": true, "ml": true, "l": true,
	"pack": true, "combo": true, "bar": true, "bottle": true,
}

// titleDenylist rejects barcode-database and listing-index pages.
var titleDenylist = []string{"upc code", "barcode database", "list of", "codes beginning"}

// WebSearch resolves barcodes through the Google Custom Search API,
// deriving a candidate from the best product-listing hit.
type WebSearch struct {
	svc        *customsearch.Service
	cx         string
	maxRetries int
	backoff    time.Duration
}

// NewWebSearch creates the adapter. Fails only when the underlying
// service cannot be constructed.
func NewWebSearch(ctx context.Context, apiKey, cx string, maxRetries int) (*WebSearch, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &WebSearch{svc: svc, cx: cx, maxRetries: maxRetries, backoff: time.Second}, nil
}

// Name implements Client.
func (w *WebSearch) Name() string { return "Google Search" }

// Lookup implements Client. The base query is retried once with a
// regionally tailored qualifier when it yields nothing usable.
func (w *WebSearch) Lookup(ctx context.Context, barcode string) (*types.RawCandidate, error) {
	results, err := w.search(ctx, barcode+" product")
	if err != nil {
		return nil, err
	}

	candidate := candidateFromResults(results)
	if candidate == nil {
		alternate := barcode + " product details"
		if strings.HasPrefix(barcode, "890") {
			alternate = barcode + " indian product description"
		}
		results, err = w.search(ctx, alternate)
		if err != nil {
			return nil, err
		}
		candidate = candidateFromResults(results)
	}
	return candidate, nil
}

// search issues one query, retrying rate limits and transient failures.
func (w *WebSearch) search(ctx context.Context, query string) ([]*customsearch.Result, error) {
	var lastErr error
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		resp, err := w.svc.Cse.List().Cx(w.cx).Q(query).Num(10).Context(ctx).Do()
		if err != nil {
			wait, retryable := searchRetryWait(err, attempt, w.backoff)
			if !retryable {
				return nil, fmt.Errorf("search failed: %w", err)
			}
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		items := resp.Items
		if len(items) > maxResultsPerQuery {
			items = items[:maxResultsPerQuery]
		}
		return items, nil
	}
	return nil, fmt.Errorf("search failed after %d attempts: %w", w.maxRetries, lastErr)
}

// searchRetryWait classifies a search error and returns the pause
// before the next attempt. Rate limits wait proportionally longer than
// other transient failures; API errors below 500 are not retried.
func searchRetryWait(err error, attempt int, backoff time.Duration) (time.Duration, bool) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return time.Duration(attempt+1) * 2 * backoff, true
		case apiErr.Code >= 500:
			return time.Duration(attempt+1) * backoff, true
		default:
			return 0, false
		}
	}
	// Transport-level failure.
	return time.Duration(attempt+1) * backoff, true
}

// candidateFromResults picks the first result that looks like a product
// listing and derives a candidate from its title and snippet.
func candidateFromResults(results []*customsearch.Result) *types.RawCandidate {
	for _, result := range results {
		title := result.Title
		lowerTitle := strings.ToLower(title)

		if matchesDenylist(lowerTitle) {
			continue
		}
		if !isEcommerceLink(result.Link) && !hasUnitToken(lowerTitle) {
			continue
		}

		name := titleToName(title)
		words := strings.Fields(name)
		if len(words) < 2 || strings.EqualFold(name, "product") {
			continue
		}

		candidate := &types.RawCandidate{
			Name:        name,
			Brand:       words[0],
			Description: result.Snippet,
			Snippet:     result.Snippet,
			SourceURL:   result.Link,
			SourceName:  "Google Search",
		}
		if q, ok := quantity.ExtractSimple(title); ok {
			candidate.QuantityValue = q.Value
			candidate.QuantityUnit = q.Unit
		}
		return candidate
	}
	return nil
}

// titleToName takes the text before the first separator, the usual spot
// for the product name in listing titles.
func titleToName(title string) string {
	for _, sep := range []string{" - ", " | "} {
		if idx := strings.Index(title, sep); idx >= 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return strings.TrimSpace(title)
}

func matchesDenylist(lowerTitle string) bool {
	for _, term := range titleDenylist {
		if strings.Contains(lowerTitle, term) {
			return true
		}
	}
	return false
}

func isEcommerceLink(link string) bool {
	lower := strings.ToLower(link)
	for _, site := range ecommerceSites {
		if strings.Contains(lower, site) {
			return true
		}
	}
	return false
}

func hasUnitToken(lowerTitle string) bool {
	for _, token := range strings.FieldsFunc(lowerTitle, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')' || r == '/'
	}) {
		if unitTokens[token] {
			return true
		}
	}
	return false
}
