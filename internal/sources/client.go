// Package sources provides the ordered cascade of product lookup adapters.
// Each adapter wraps one external service behind a uniform contract: fetch
// a candidate record for a barcode, or report nothing found.
package sources

import (
	"context"
	"fmt"

	"github.com/datacarts/barcode-enricher/internal/types"
)

// Client is an abstraction over one product lookup service.
type Client interface {
	// Name identifies the source for logging and record provenance.
	Name() string
	// Lookup fetches a candidate record for the barcode. A nil candidate
	// with a nil error means the source has no data for this barcode.
	Lookup(ctx context.Context, barcode string) (*types.RawCandidate, error)
}

// Cascade queries clients strictly in order and stops at the first
// candidate that carries a name. Adapter errors are absorbed: a failing
// source is equivalent to a source with no data.
type Cascade struct {
	Clients []Client
	// Logf receives per-source progress lines; nil disables logging.
	Logf func(format string, args ...any)
}

// Lookup runs the cascade for one barcode.
func (c *Cascade) Lookup(ctx context.Context, barcode string) *types.RawCandidate {
	for _, client := range c.Clients {
		candidate, err := client.Lookup(ctx, barcode)
		if err != nil {
			c.logf("lookup via %s failed for %s: %v", client.Name(), barcode, err)
			continue
		}
		if candidate.Found() {
			c.logf("found %q for %s via %s", candidate.Name, barcode, client.Name())
			return candidate
		}
		c.logf("no data in %s for %s", client.Name(), barcode)
	}
	return nil
}

func (c *Cascade) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

// String lists the cascade order, mostly for startup logging.
func (c *Cascade) String() string {
	names := make([]string, 0, len(c.Clients))
	for _, client := range c.Clients {
		names = append(names, client.Name())
	}
	return fmt.Sprintf("%v", names)
}
