package types

import "time"

// LedgerEntry records a barcode that could not be resolved into the primary
// collection, either because it failed format validation or because every
// lookup source came up empty. Entries are upserted by barcode.
type LedgerEntry struct {
	Barcode   string    `json:"barcode"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Attempts  int       `json:"attempts"`
	Reasons   []string  `json:"reasons"`
}

// AddReason appends reason to the entry's reason set if not already present.
func (e *LedgerEntry) AddReason(reason string) {
	for _, r := range e.Reasons {
		if r == reason {
			return
		}
	}
	e.Reasons = append(e.Reasons, reason)
}
