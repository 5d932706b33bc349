// Package bloom de-duplicates discovered command roots using a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate makes dropping a genuine root from an index of a
// few hundred entries practically impossible.
const DefaultFalsePositiveRate = 1e-6

// Filter is a set of root names that never forgets a member and may
// occasionally claim membership for a name it has not seen.
type Filter struct {
	bits *bloom.BloomFilter
}

// New returns a filter sized for n names at DefaultFalsePositiveRate.
func New(n uint) *Filter {
	return NewWithRate(n, DefaultFalsePositiveRate)
}

// NewWithRate returns a filter sized for n names at the given false
// positive rate.
func NewWithRate(n uint, rate float64) *Filter {
	return &Filter{bits: bloom.NewWithEstimates(max(n, 1), rate)}
}

// Seen adds name and reports whether it was already a member.
func (f *Filter) Seen(name string) bool {
	return f.bits.TestAndAddString(name)
}
