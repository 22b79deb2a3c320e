// Package keytab interns Object keys behind an xxHash64-keyed table so that
// repeated keys, across many encoded or decoded documents, share one backing
// string instead of allocating a fresh one per occurrence.
//
// Grounded on the hashing idiom in arloliu/mebo's internal/hash package
// (xxhash.Sum64String as a one-line ID function).
package keytab

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Table is a concurrency-safe string interner. Hash buckets hold every
// distinct string seen for a given hash, so an xxHash64 collision degrades
// to a short linear scan instead of corrupting an unrelated key.
type Table struct {
	mu      sync.RWMutex
	buckets map[uint64][]string
}

// New returns an empty Table.
func New() *Table {
	return &Table{buckets: make(map[uint64][]string)}
}

// Intern returns a canonical copy of s: the first string ever interned equal
// to s is reused for every subsequent call.
func (t *Table) Intern(s string) string {
	h := xxhash.Sum64String(s)
	t.mu.RLock()
	for _, cand := range t.buckets[h] {
		if cand == s {
			t.mu.RUnlock()
			return cand
		}
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, cand := range t.buckets[h] {
		if cand == s {
			return cand
		}
	}
	t.buckets[h] = append(t.buckets[h], s)
	return s
}
