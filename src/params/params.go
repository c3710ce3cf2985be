// Package params holds the sketch configuration: the user facing options, the resolved
// parameters handed to the sketch engine, the consistency checks and the output naming.
package params

// Alphabet is the residue alphabet that k-mers are drawn from
type Alphabet int

const (
	// Nucleotide sequences (A, C, G, T)
	Nucleotide Alphabet = iota
	// Protein sequences (the 20 standard amino acids)
	Protein
)

// MaxKmerSize is the largest k-mer that fits a 64 bit hash value without losing the uniqueness argument
const MaxKmerSize = 32

// Size returns the number of letters in the alphabet
func (Alphabet Alphabet) Size() int {
	if Alphabet == Protein {
		return 20
	}
	return 4
}

// String returns the name of the alphabet
func (Alphabet Alphabet) String() string {
	if Alphabet == Protein {
		return "protein"
	}
	return "nucleotide"
}

// Options are the sketch options as given on the command line
type Options struct {
	KmerSize     int
	SketchSize   int
	Individual   bool
	Warning      float64
	Reads        bool
	MinCov       float64
	MinCovSet    bool // the user supplied MinCov explicitly
	TargetCov    float64
	Noncanonical bool
	Protein      bool
	Threads      int
}

// Parameters is the resolved sketch configuration, it is not modified once Resolve returns it
type Parameters struct {
	KmerSize     int
	SketchSize   int
	Concatenated bool
	Noncanonical bool
	Reads        bool
	MinCov       float64
	TargetCov    float64
	Warning      float64
	Parallelism  int
	Alphabet     Alphabet

	// windowed sketches are not reachable from the command line yet
	Windowed   bool
	WindowSize int
}

// Resolve maps a set of options to the sketch parameters, applying the implication rules between options
func Resolve(opts Options) Parameters {
	parameters := Parameters{
		KmerSize:     opts.KmerSize,
		SketchSize:   opts.SketchSize,
		Concatenated: !opts.Individual,
		Noncanonical: opts.Noncanonical,
		Reads:        opts.Reads,
		MinCov:       opts.MinCov,
		TargetCov:    opts.TargetCov,
		Warning:      opts.Warning,
		Parallelism:  opts.Threads,
		Alphabet:     Nucleotide,
	}
	if opts.Protein {
		parameters.Alphabet = Protein
	}

	// coverage filtering only means something for reads
	if opts.MinCovSet {
		parameters.Reads = true
	}
	return parameters
}

// Canonical reports whether k-mers are collapsed with their reverse complement
func (Parameters *Parameters) Canonical() bool {
	return !Parameters.Noncanonical && Parameters.Alphabet == Nucleotide
}
