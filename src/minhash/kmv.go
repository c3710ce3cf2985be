package minhash

import (
	"bytes"
	"container/heap"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/will-rowe/ntHash"
)

// minPendingLimit is the smallest count table size at which pending k-mers are pruned
const minPendingLimit = 4096

// KMVsketch is the structure for the K-Minimum Values MinHash sketch of a set of k-mers
type KMVsketch struct {
	kmerSize     uint
	sketchSize   uint
	canonical    bool
	protein      bool
	minCov       uint32
	heap         *IntHeap
	members      map[uint64]struct{}
	counts       map[uint64]uint32 // copies seen of each sketch member, and of candidates still short of minCov
	filter       *coverageFilter
	pendingLimit int
}

// Option changes how a KMVsketch hashes k-mers
type Option func(*KMVsketch)

// Noncanonical hashes the forward strand k-mer only
func Noncanonical() Option {
	return func(KMVsketch *KMVsketch) { KMVsketch.canonical = false }
}

// Protein hashes amino acid k-mers
func Protein() Option {
	return func(KMVsketch *KMVsketch) {
		KMVsketch.protein = true
		KMVsketch.canonical = false
	}
}

// MinCoverage only lets a k-mer into the sketch once it has been seen minCov times
func MinCoverage(minCov uint32) Option {
	return func(KMVsketch *KMVsketch) { KMVsketch.minCov = minCov }
}

// NewKMVsketch is the constructor for a KMVsketch data structure
func NewKMVsketch(k, s uint, opts ...Option) *KMVsketch {
	newSketch := &KMVsketch{
		kmerSize:     k,
		sketchSize:   s,
		canonical:    CANONICAL,
		minCov:       1,
		heap:         &IntHeap{},
		members:      make(map[uint64]struct{}, s),
		counts:       make(map[uint64]uint32, s),
		pendingLimit: minPendingLimit,
	}
	for _, opt := range opts {
		opt(newSketch)
	}
	if newSketch.minCov > 1 {
		newSketch.filter = newCoverageFilter()
	}

	// init the heap
	heap.Init(newSketch.heap)
	return newSketch
}

// AddSequence is a method to decompose a sequence into k-mers, hash them and add any minimums to the sketch.
// Nucleotide sequences are expected in upper case, k-mers spanning anything but A/C/G/T are skipped.
func (KMVsketch *KMVsketch) AddSequence(sequence []byte) error {

	// check the sequence length
	if len(sequence) < int(KMVsketch.kmerSize) {
		return fmt.Errorf("%w (%d vs. %d)", ErrShortSequence, len(sequence), KMVsketch.kmerSize)
	}
	if KMVsketch.protein {
		KMVsketch.addPeptides(sequence)
		return nil
	}

	// hash each run of unambiguous bases separately
	start := 0
	for i := 0; i <= len(sequence); i++ {
		if i < len(sequence) && isBase(sequence[i]) {
			continue
		}
		if i-start >= int(KMVsketch.kmerSize) {
			run := sequence[start:i]

			// initiate the rolling ntHash
			hasher, err := ntHash.New(&run, KMVsketch.kmerSize)
			if err != nil {
				return err
			}
			for hv := range hasher.Hash(KMVsketch.canonical) {
				KMVsketch.add(hv)
			}
		}
		start = i + 1
	}
	return nil
}

// addPeptides hashes every amino acid k-mer that does not span a stop codon
func (KMVsketch *KMVsketch) addPeptides(sequence []byte) {
	k := int(KMVsketch.kmerSize)
	for i := 0; i+k <= len(sequence); i++ {
		kmer := sequence[i : i+k]
		if bytes.IndexByte(kmer, '*') != -1 {
			continue
		}
		KMVsketch.add(xxhash.Sum64(kmer))
	}
}

// add evaluates a hashed k-mer against the sketch
func (KMVsketch *KMVsketch) add(hv uint64) {
	full := uint(len(*KMVsketch.heap)) >= KMVsketch.sketchSize
	if full && hv > KMVsketch.heap.Max() {
		return
	}
	if _, ok := KMVsketch.members[hv]; ok {
		KMVsketch.counts[hv]++
		return
	}

	// hold back k-mers that haven't reached the coverage cut off yet
	count := uint32(1)
	if KMVsketch.minCov > 1 {
		if !KMVsketch.filter.seenBefore(hv) {
			return
		}
		count = KMVsketch.counts[hv]
		if count == 0 {
			count = 1
		}
		count++
		KMVsketch.counts[hv] = count
		if count < KMVsketch.minCov {
			KMVsketch.prunePending()
			return
		}
	}
	KMVsketch.counts[hv] = count
	KMVsketch.members[hv] = struct{}{}

	// add the hash and, if the sketch is now over capacity, drop the largest one
	heap.Push(KMVsketch.heap, hv)
	if uint(len(*KMVsketch.heap)) > KMVsketch.sketchSize {
		max := heap.Pop(KMVsketch.heap).(uint64)
		delete(KMVsketch.members, max)
		delete(KMVsketch.counts, max)
	}
}

// prunePending drops candidate k-mers that can no longer make it into a full sketch
func (KMVsketch *KMVsketch) prunePending() {
	if uint(len(*KMVsketch.heap)) < KMVsketch.sketchSize || len(KMVsketch.counts) < KMVsketch.pendingLimit {
		return
	}
	max := KMVsketch.heap.Max()
	for hv := range KMVsketch.counts {
		if _, ok := KMVsketch.members[hv]; !ok && hv >= max {
			delete(KMVsketch.counts, hv)
		}
	}
	KMVsketch.pendingLimit = 2 * len(KMVsketch.counts)
	if KMVsketch.pendingLimit < minPendingLimit {
		KMVsketch.pendingLimit = minPendingLimit
	}
}

// GetSketch is a method to return the sketch as a sorted (min > max) []uint64
func (KMVsketch *KMVsketch) GetSketch() []uint64 {
	sketch := make([]uint64, len(*KMVsketch.heap))
	copy(sketch, *KMVsketch.heap)
	sort.Slice(sketch, func(i, j int) bool { return sketch[i] < sketch[j] })
	return sketch
}

// Multiplicity estimates the coverage of the sketched data as the mean number of copies of each sketch member
func (KMVsketch *KMVsketch) Multiplicity() float64 {
	if len(KMVsketch.members) == 0 {
		return 0
	}
	total := 0.0
	for hv := range KMVsketch.members {
		total += float64(KMVsketch.counts[hv])
	}
	return total / float64(len(KMVsketch.members))
}

// isBase reports whether a letter is one of the four unambiguous bases
func isBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}
