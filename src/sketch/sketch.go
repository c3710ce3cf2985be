// Package sketch builds MinHash sketches of sequence sources and reads and writes them as sketch files
package sketch

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fbreitwieser/Mash/src/adequacy"
	"github.com/fbreitwieser/Mash/src/metrics"
	"github.com/fbreitwieser/Mash/src/minhash"
	"github.com/fbreitwieser/Mash/src/misc"
	"github.com/fbreitwieser/Mash/src/params"
	"github.com/fbreitwieser/Mash/src/seqio"
	"github.com/fbreitwieser/Mash/src/version"
)

// Reference is one sketched unit: a whole source, or a single sequence when sketching individually
type Reference struct {
	Name         string
	Comment      string
	Length       uint64
	Hashes       []uint64
	Multiplicity float64 // estimated coverage, only set for reads
}

// Sketch is the set of references sketched with one set of parameters
type Sketch struct {
	Version       string
	Parameters    params.Parameters
	References    []*Reference
	SequenceCount int // records read, which differs from the reference count unless sketching individually
}

// tally counts what a minion read from one source
type tally struct {
	sequences int
	residues  uint64
}

// InitFromFiles sketches each source with the given parameters. References are returned in input
// order, whatever the number of workers.
func InitFromFiles(files []string, parameters params.Parameters, verbosity int, logger *zap.SugaredLogger) (*Sketch, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	boss := newBoss(&parameters, files, verbosity, logger)
	if err := boss.sketchSources(); err != nil {
		return nil, err
	}
	sketch := &Sketch{
		Version:       version.GetVersion(),
		Parameters:    parameters,
		SequenceCount: boss.sequences,
	}
	for _, refs := range boss.results {
		sketch.References = append(sketch.References, refs...)
	}
	metrics.ReferencesSketched.Add(float64(len(sketch.References)))
	metrics.ResiduesSketched.Add(float64(boss.residues))
	logger.Debugf("\tsketched %d references (%d sequences) from %d sources %s", len(sketch.References), sketch.SequenceCount, len(files), misc.PrintMemUsage())
	return sketch, nil
}

// Stats returns the name and length of each reference
func (Sketch *Sketch) Stats() []adequacy.Stat {
	stats := make([]adequacy.Stat, len(Sketch.References))
	for i, ref := range Sketch.References {
		stats[i] = adequacy.Stat{Name: ref.Name, Length: ref.Length}
	}
	return stats
}

// newSketcher returns an empty KMV sketch for the parameters
func newSketcher(parameters *params.Parameters) *minhash.KMVsketch {
	opts := []minhash.Option{}
	if !parameters.Canonical() {
		opts = append(opts, minhash.Noncanonical())
	}
	if parameters.Alphabet == params.Protein {
		opts = append(opts, minhash.Protein())
	}
	if parameters.Reads && parameters.MinCov > 1 {
		opts = append(opts, minhash.MinCoverage(uint32(math.Ceil(parameters.MinCov))))
	}
	return minhash.NewKMVsketch(uint(parameters.KmerSize), uint(parameters.SketchSize), opts...)
}

// sketchSource reads every record of a source into one reference, or one reference per record
func sketchSource(source string, parameters *params.Parameters) ([]*Reference, tally, error) {
	fh, err := seqio.Open(source)
	if err != nil {
		return nil, tally{}, err
	}
	defer fh.Close()
	reader, err := seqio.NewReader(fh, parameters.Alphabet)
	if err != nil {
		return nil, tally{}, errors.Wrapf(err, "could not read %s", source)
	}
	if parameters.Concatenated {
		ref, count, err := sketchConcatenated(source, reader, parameters)
		if err != nil {
			return nil, tally{}, err
		}
		return []*Reference{ref}, tally{sequences: count, residues: ref.Length}, nil
	}

	// individual mode
	refs := []*Reference{}
	counts := tally{}
	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, tally{}, errors.Wrapf(err, "could not read %s", source)
		}
		mh := newSketcher(parameters)
		if err := record.RunMinHash(mh); err != nil {
			return nil, tally{}, errors.Wrapf(err, "could not sketch %s in %s", record.ID, source)
		}
		refs = append(refs, &Reference{
			Name:    record.ID,
			Comment: record.Comment,
			Length:  uint64(record.Len()),
			Hashes:  mh.GetSketch(),
		})
		counts.sequences++
		counts.residues += uint64(record.Len())
	}
	return refs, counts, nil
}

// sketchConcatenated sketches all the records of a source as one reference named after the source
func sketchConcatenated(source string, reader *seqio.Reader, parameters *params.Parameters) (*Reference, int, error) {
	mh := newSketcher(parameters)
	ref := &Reference{Name: source}
	count := 0
	first := ""
	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrapf(err, "could not read %s", source)
		}
		if count == 0 {
			first = strings.TrimSpace(record.ID + " " + record.Comment)
		}
		count++
		ref.Length += uint64(record.Len())
		if err := record.RunMinHash(mh); err != nil {
			return nil, 0, errors.Wrapf(err, "could not sketch %s in %s", record.ID, source)
		}

		// stop once the reads give the requested coverage
		if parameters.Reads && parameters.TargetCov > 0 && mh.Multiplicity() >= parameters.TargetCov {
			break
		}
	}
	ref.Comment = first
	if count > 1 {
		ref.Comment = fmt.Sprintf("[%d seqs] %s [...]", count, first)
	}
	ref.Hashes = mh.GetSketch()
	if parameters.Reads {
		ref.Multiplicity = mh.Multiplicity()
	}
	return ref, count, nil
}
