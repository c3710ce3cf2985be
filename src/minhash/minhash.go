// Package minhash contains a bottom-k (KMV) MinHash sketch. Nucleotide k-mers are hashed with the
// ntHash rolling hash function, protein k-mers with xxHash.
package minhash

import "errors"

// CANONICAL tells nthash to return the canonical k-mer
const CANONICAL bool = true

// ErrShortSequence is returned when a sequence has no k-mers for the sketch's k
var ErrShortSequence = errors.New("sequence is shorter than the k-mer size")

// MinHash is the interface satisfied by the sketches in this package
type MinHash interface {
	AddSequence([]byte) error
	GetSketch() []uint64
	Multiplicity() float64
}
