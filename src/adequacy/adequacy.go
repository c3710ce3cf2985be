// Package adequacy checks whether the k-mer size used for a sketch is large enough for the
// lengths of the sequences that were sketched.
//
// A sequence of length L drawn uniformly from an alphabet of size A will contain a specific
// k-mer by chance with an expected count of roughly L / A^k. Solving for the length at which
// the chance of a random k-mer match reaches the warning probability p gives the threshold
//
//	threshold = p * A^k / (1 - p)
//
// Any sequence longer than the threshold is reported. The approximation treats k-mer positions
// as independent, which is what existing sketches were checked against, so it is kept as is.
package adequacy

import (
	"fmt"
	"math"

	"github.com/fbreitwieser/Mash/src/params"
)

// Stat is the length of one sketched reference
type Stat struct {
	Name   string
	Length uint64
}

// Finding describes the worst reference found by a scan
type Finding struct {
	Name           string
	Length         uint64
	RandomChance   float64
	MinKmerSize    int
	ViolationCount int

	// the parameters the scan was run with
	KmerSize int
	Warning  float64
}

// kmerSpace returns A^k
func kmerSpace(alphabetSize, kmerSize int) float64 {
	return math.Pow(float64(alphabetSize), float64(kmerSize))
}

// LengthThreshold returns the sequence length above which random k-mer matches are more likely than warning
func LengthThreshold(warning float64, alphabetSize, kmerSize int) uint64 {
	threshold := warning * kmerSpace(alphabetSize, kmerSize) / (1 - warning)
	switch {
	case threshold <= 0 || math.IsNaN(threshold):
		return 0
	case threshold >= math.MaxUint64:
		return math.MaxUint64
	}
	return uint64(threshold)
}

// RandomKmerChance returns the probability of a random k-mer match for a sequence of the given length
func RandomKmerChance(length uint64, alphabetSize, kmerSize int) float64 {
	if length == 0 {
		return 0
	}
	return 1 / (kmerSpace(alphabetSize, kmerSize)/float64(length) + 1)
}

// MinKmerSize returns the smallest k-mer size that keeps a sequence of the given length under the threshold.
// If no k-mer size up to maxKmerSize does, maxKmerSize is returned.
func MinKmerSize(length uint64, warning float64, alphabetSize, maxKmerSize int) int {
	for k := 1; k <= maxKmerSize; k++ {
		if length <= LengthThreshold(warning, alphabetSize, k) {
			return k
		}
	}
	return maxKmerSize
}

// Scan checks every reference against the length threshold for the parameters.
// The longest violating reference is kept (the first one wins a tie).
func Scan(parameters *params.Parameters, stats []Stat) Finding {
	finding := Finding{
		KmerSize: parameters.KmerSize,
		Warning:  parameters.Warning,
	}
	alphabetSize := parameters.Alphabet.Size()
	threshold := LengthThreshold(parameters.Warning, alphabetSize, parameters.KmerSize)
	for _, stat := range stats {
		if stat.Length <= threshold {
			continue
		}
		if finding.ViolationCount == 0 || stat.Length > finding.Length {
			finding.Name = stat.Name
			finding.Length = stat.Length
			finding.RandomChance = RandomKmerChance(stat.Length, alphabetSize, parameters.KmerSize)
			finding.MinKmerSize = MinKmerSize(stat.Length, parameters.Warning, alphabetSize, params.MaxKmerSize)
		}
		finding.ViolationCount++
	}
	return finding
}

// Check scans the references and returns the finding to report, or nil if there is nothing to report.
// Read sets are not reported as deep, noisy inputs would always trip the check.
func Check(parameters *params.Parameters, stats []Stat) *Finding {
	if parameters.Reads {
		return nil
	}
	finding := Scan(parameters, stats)
	if finding.ViolationCount == 0 {
		return nil
	}
	return &finding
}

// String returns the warning message for the finding
func (Finding *Finding) String() string {
	msg := fmt.Sprintf("For the k-mer size used (%d), the random match probability (%g) is above the specified warning threshold (%g) for the sequence \"%s\" of size %d",
		Finding.KmerSize, Finding.RandomChance, Finding.Warning, Finding.Name, Finding.Length)
	these := "this sequence"
	if Finding.ViolationCount > 1 {
		msg += fmt.Sprintf(" (and %d others)", Finding.ViolationCount-1)
		these = "these sequences"
	}
	msg += fmt.Sprintf(". Distances to %s may be underestimated as a result. To meet the threshold of %g, a k-mer size of at least %d is required. See: -k, -w.",
		these, Finding.Warning, Finding.MinKmerSize)
	return msg
}
