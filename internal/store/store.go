// Package store persists enriched products and the two barcode ledgers
// under the output directory. Files are whole JSON documents rewritten
// on every update so a crash mid-run leaves readable output behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/datacarts/barcode-enricher/internal/types"
)

const (
	// ProductsFile holds the primary array of enriched products.
	ProductsFile = "products.json"
	// InvalidFile records barcodes rejected by format validation.
	InvalidFile = "invalid_barcodes.json"
	// NotFoundFile records barcodes no source or model could resolve.
	NotFoundFile = "not_found_barcodes.json"
)

// Error wraps a store failure with the file it concerns.
type Error struct {
	File    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store: %s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("store: %s: %s", e.File, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Store owns the output directory.
type Store struct {
	dir string

	products []types.ProductRecord
	index    map[string]int

	invalid  map[string]*types.LedgerEntry
	notFound map[string]*types.LedgerEntry

	now func() time.Time
}

// Open loads (or initializes) the output files under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &Error{File: dir, Message: "create output dir", Cause: err}
	}

	s := &Store{
		dir:      dir,
		index:    make(map[string]int),
		invalid:  make(map[string]*types.LedgerEntry),
		notFound: make(map[string]*types.LedgerEntry),
		now:      time.Now,
	}

	if err := s.loadProducts(); err != nil {
		return nil, err
	}
	if err := loadLedger(s.path(InvalidFile), s.invalid); err != nil {
		return nil, err
	}
	if err := loadLedger(s.path(NotFoundFile), s.notFound); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) loadProducts() error {
	data, err := os.ReadFile(s.path(ProductsFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &Error{File: ProductsFile, Message: "read", Cause: err}
	}
	if err := json.Unmarshal(data, &s.products); err != nil {
		return &Error{File: ProductsFile, Message: "parse", Cause: err}
	}
	for i, p := range s.products {
		s.index[p.Barcode] = i
	}
	return nil
}

func loadLedger(path string, into map[string]*types.LedgerEntry) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &Error{File: filepath.Base(path), Message: "read", Cause: err}
	}
	var entries []*types.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return &Error{File: filepath.Base(path), Message: "parse", Cause: err}
	}
	for _, e := range entries {
		into[e.Barcode] = e
	}
	return nil
}

// HasProduct reports whether a barcode already has a stored record.
func (s *Store) HasProduct(barcode string) bool {
	_, ok := s.index[barcode]
	return ok
}

// HasInvalid reports whether a barcode is on the invalid ledger.
func (s *Store) HasInvalid(barcode string) bool {
	_, ok := s.invalid[barcode]
	return ok
}

// Products returns a copy of the stored records.
func (s *Store) Products() []types.ProductRecord {
	out := make([]types.ProductRecord, len(s.products))
	copy(out, s.products)
	return out
}

// LastProduct returns the most recently appended record, or nil.
func (s *Store) LastProduct() *types.ProductRecord {
	if len(s.products) == 0 {
		return nil
	}
	record := s.products[len(s.products)-1]
	return &record
}

// SaveProduct upserts a record by barcode. Records matching the
// unknown-product predicate are routed to the not-found ledger instead
// of the primary collection.
func (s *Store) SaveProduct(record *types.ProductRecord) error {
	if record.IsUnknown() {
		return s.MarkNotFound(record.Barcode, "resolved to unknown product")
	}

	if i, ok := s.index[record.Barcode]; ok {
		s.products[i] = *record
	} else {
		s.index[record.Barcode] = len(s.products)
		s.products = append(s.products, *record)
	}
	return s.writeJSON(ProductsFile, s.products)
}

// MarkInvalid upserts a barcode onto the invalid ledger.
func (s *Store) MarkInvalid(barcode, reason string) error {
	upsertLedger(s.invalid, barcode, reason, s.now())
	return s.writeLedger(InvalidFile, s.invalid)
}

// MarkNotFound upserts a barcode onto the not-found ledger.
func (s *Store) MarkNotFound(barcode, reason string) error {
	upsertLedger(s.notFound, barcode, reason, s.now())
	return s.writeLedger(NotFoundFile, s.notFound)
}

// InvalidCount returns the number of barcodes on the invalid ledger.
func (s *Store) InvalidCount() int { return len(s.invalid) }

// NotFoundCount returns the number of barcodes on the not-found ledger.
func (s *Store) NotFoundCount() int { return len(s.notFound) }

// ProductCount returns the number of stored records.
func (s *Store) ProductCount() int { return len(s.products) }

func upsertLedger(ledger map[string]*types.LedgerEntry, barcode, reason string, now time.Time) {
	entry, ok := ledger[barcode]
	if !ok {
		entry = &types.LedgerEntry{Barcode: barcode, FirstSeen: now}
		ledger[barcode] = entry
	}
	entry.LastSeen = now
	entry.Attempts++
	entry.AddReason(reason)
}

func (s *Store) writeLedger(name string, ledger map[string]*types.LedgerEntry) error {
	entries := make([]*types.LedgerEntry, 0, len(ledger))
	for _, e := range ledger {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Barcode < entries[j].Barcode })
	return s.writeJSON(name, entries)
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &Error{File: name, Message: "encode", Cause: err}
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return &Error{File: name, Message: "write", Cause: err}
	}
	return nil
}
