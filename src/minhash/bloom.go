package minhash

import (
	"encoding/binary"

	"github.com/willf/bloom"
)

const (
	// defaultCapacity is the number of distinct k-mers the coverage filter is sized for
	defaultCapacity = 1 << 20

	// defaultFalsePositive is the false positive rate of the coverage filter at capacity
	defaultFalsePositive = 1e-6
)

// coverageFilter records which hashed k-mers have been seen at least once, so that singletons
// (mostly sequencing errors) never reach the sketch's count table
type coverageFilter struct {
	filter *bloom.BloomFilter
	buf    [8]byte
}

// newCoverageFilter is the constructor, using the default size
func newCoverageFilter() *coverageFilter {
	return &coverageFilter{
		filter: bloom.NewWithEstimates(defaultCapacity, defaultFalsePositive),
	}
}

// seenBefore marks a hashed k-mer and reports whether it had already been marked
func (coverageFilter *coverageFilter) seenBefore(hv uint64) bool {
	binary.LittleEndian.PutUint64(coverageFilter.buf[:], hv)
	return coverageFilter.filter.TestAndAdd(coverageFilter.buf[:])
}

