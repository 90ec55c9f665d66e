package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/codingislub/chat/internal/models"
	"go.uber.org/zap"
)

// Store holds the validated, immutable invoice collection. It is loaded
// once and read-only afterwards; a reload builds a fresh Store. Invalid
// records are skipped and counted rather than failing the whole load, so
// one malformed entry in a large batch does not block queries.
type Store struct {
	invoices []models.Invoice
	skipped  int
}

// Load validates raw records into a Store. It never fails: records that
// miss required fields, carry a negative amount, an unparseable date, or a
// duplicate invoice number are logged and excluded.
func Load(records []models.RawInvoice, logger *zap.Logger) *Store {
	s := &Store{invoices: make([]models.Invoice, 0, len(records))}
	seen := make(map[string]bool, len(records))

	for i, raw := range records {
		inv, err := raw.Validate()
		if err != nil {
			s.skipped++
			logger.Warn("Skipping invalid invoice record",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		if inv.InvoiceNumber != "" {
			if seen[inv.InvoiceNumber] {
				s.skipped++
				logger.Warn("Skipping duplicate invoice number",
					zap.Int("index", i),
					zap.String("invoice_number", inv.InvoiceNumber))
				continue
			}
			seen[inv.InvoiceNumber] = true
		}
		s.invoices = append(s.invoices, inv)
	}

	logger.Info("Invoice store loaded",
		zap.Int("loaded", len(s.invoices)),
		zap.Int("skipped", s.skipped))
	return s
}

// LoadFile reads a JSON dataset file and loads it. Unlike per-record
// validation, a file that cannot be read or is not a JSON array at all is
// a fatal load error.
func LoadFile(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return LoadJSON(data, logger)
}

// LoadJSON decodes a JSON array of invoice objects and loads it.
func LoadJSON(data []byte, logger *zap.Logger) (*Store, error) {
	var records []models.RawInvoice
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dataset is not a JSON array of invoices: %w", err)
	}
	return Load(records, logger), nil
}

// Count returns the number of valid invoices held.
func (s *Store) Count() int {
	return len(s.invoices)
}

// Skipped returns how many records were rejected during load.
func (s *Store) Skipped() int {
	return s.skipped
}

// All returns the invoices in insertion order. The slice is shared and
// must be treated as read-only.
func (s *Store) All() []models.Invoice {
	return s.invoices
}

// Vendors returns the distinct vendor names, sorted. Used to give the
// semantic tier dataset context.
func (s *Store) Vendors() []string {
	set := make(map[string]bool)
	for _, inv := range s.invoices {
		set[inv.Vendor] = true
	}
	vendors := make([]string, 0, len(set))
	for v := range set {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)
	return vendors
}

// MatchVendor reports whether an invoice's vendor matches a filter term
// with case-insensitive substring semantics. An empty term matches all.
func MatchVendor(inv models.Invoice, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inv.Vendor), strings.ToLower(term))
}
