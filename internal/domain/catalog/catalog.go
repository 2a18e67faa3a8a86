// Package catalog holds immutable point-in-time product tables.
package catalog

import (
	"iter"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recodex/internal/domain/product"
)

// Snapshot is an immutable, ordered product table.
// A nil *Snapshot behaves like an absent catalog.
type Snapshot struct {
	version  string
	source   string
	loadedAt time.Time
	products []product.Product
	absent   bool
}

// New creates a snapshot with a fresh version. The slice is copied.
func New(source string, products []product.Product) *Snapshot {
	cp := make([]product.Product, len(products))
	copy(cp, products)
	return &Snapshot{
		version:  uuid.NewString(),
		source:   source,
		loadedAt: time.Now().UTC(),
		products: cp,
	}
}

// Absent returns the snapshot used when no source could be loaded.
func Absent() *Snapshot {
	return &Snapshot{absent: true}
}

// IsAbsent reports whether no catalog is loaded.
func (s *Snapshot) IsAbsent() bool { return s == nil || s.absent }

// Version identifies the snapshot; empty for an absent catalog.
func (s *Snapshot) Version() string {
	if s == nil {
		return ""
	}
	return s.version
}

// Source returns the path the snapshot was loaded from.
func (s *Snapshot) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// LoadedAt returns the load timestamp.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// Len returns the number of products.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

// At returns the product at catalog index i.
func (s *Snapshot) At(i int) product.Product { return s.products[i] }

// All iterates products in catalog order.
func (s *Snapshot) All() iter.Seq2[int, product.Product] {
	return func(yield func(int, product.Product) bool) {
		if s == nil {
			return
		}
		for i, p := range s.products {
			if !yield(i, p) {
				return
			}
		}
	}
}

// TagColumn returns the tag strings aligned with catalog order.
func (s *Snapshot) TagColumn() []string {
	tags := make([]string, s.Len())
	for i, p := range s.All() {
		tags[i] = p.Tags()
	}
	return tags
}

// Holder publishes the current snapshot to concurrent readers.
// Readers never observe a partially replaced catalog.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder with an initial snapshot (nil means absent).
func NewHolder(initial *Snapshot) *Holder {
	h := &Holder{}
	if initial == nil {
		initial = Absent()
	}
	h.current.Store(initial)
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Snapshot {
	if s := h.current.Load(); s != nil {
		return s
	}
	return Absent()
}

// Swap atomically replaces the snapshot and returns the previous one.
func (h *Holder) Swap(next *Snapshot) *Snapshot {
	if next == nil {
		next = Absent()
	}
	return h.current.Swap(next)
}

// Sampler picks k distinct indices from [0, n).
type Sampler func(n, k int) []int

// RandomSampler selects uniformly without replacement.
func RandomSampler(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	return rand.Perm(n)[:k]
}

// Sample returns up to k products chosen by pick. Out-of-range or repeated
// indices returned by pick are ignored.
func (s *Snapshot) Sample(k int, pick Sampler) []product.Product {
	n := s.Len()
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	if pick == nil {
		pick = RandomSampler
	}
	seen := make(map[int]struct{}, k)
	out := make([]product.Product, 0, k)
	for _, i := range pick(n, k) {
		if i < 0 || i >= n {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, s.products[i])
		if len(out) == k {
			break
		}
	}
	return out
}

// Source formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// LoadReport summarizes one load of a tabular source.
type LoadReport struct {
	Source    string
	Format    string
	Rows      int // rows read from the source
	Loaded    int // rows kept in the snapshot
	Skipped   int // rows dropped (no name)
	Malformed int // rows kept with at least one uncoercible numeric field
	Err       error
}

// Found reports whether the source was read.
func (r LoadReport) Found() bool { return r.Err == nil }
