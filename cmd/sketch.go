// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fbreitwieser/Mash/src/adequacy"
	"github.com/fbreitwieser/Mash/src/inputs"
	"github.com/fbreitwieser/Mash/src/metrics"
	"github.com/fbreitwieser/Mash/src/params"
	"github.com/fbreitwieser/Mash/src/sketch"
	"github.com/fbreitwieser/Mash/src/version"
)

// the command line arguments
var (
	listInput    *bool    // positional arguments are list files
	prefix       *string  // output prefix, the first input is used if not given
	kmerSize     *int     // size of k-mer
	sketchSize   *int     // number of min-hashes kept per sketch
	individual   *bool    // sketch each sequence instead of each file
	warning      *float64 // tolerated probability of a random k-mer match
	reads        *bool    // input is reads
	minCov       *float64 // copies of a k-mer needed to pass the read noise filter
	targetCov    *float64 // stop reading once this coverage is estimated
	noncanonical *bool    // don't collapse k-mers with their reverse complement
	protein      *bool    // input is amino acids
)

// the sketch command (used by cobra)
var sketchCmd = &cobra.Command{
	Use:   "sketch [options] <input> [<input>] ...",
	Short: "Create sketches (reduced representations for fast operations)",
	Long: `Create a sketch file, which is a reduced representation of a sequence or set of sequences
(based on min-hashes) that can be used for fast distance estimations. Inputs can be fasta or fastq
files (gzipped or not), s3:// objects, and "-" can be given for standard input. Input files can also
be files of file names (see -l). For output, one sketch file will be generated, but it can have
multiple sketches within it, divided by sequences or files (see -i). By default, the output file
name will be the first input file with a '.msh' extension, or 'stdin.msh' if standard input is used
(see -o).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		request := &sketchRequest{
			options: params.Options{
				KmerSize:     *kmerSize,
				SketchSize:   *sketchSize,
				Individual:   *individual,
				Warning:      *warning,
				Reads:        *reads,
				MinCov:       *minCov,
				MinCovSet:    cmd.Flags().Changed("minCov"),
				TargetCov:    *targetCov,
				Noncanonical: *noncanonical,
				Protein:      *protein,
				Threads:      *proc,
			},
			list:        *listInput,
			prefix:      *prefix,
			verbosity:   *verbose,
			metricsFile: *metricsFile,
		}
		return execute(cmd, request, args)
	},
}

// a function to initialise the command line arguments
func init() {
	listInput = sketchCmd.Flags().BoolP("list", "l", false, "list input, lines in each <input> specify paths to sequence files, one per line")
	prefix = sketchCmd.Flags().StringP("prefix", "o", "", "output prefix (first input file used if unspecified), the suffix '.msh' will be appended")
	kmerSize = sketchCmd.Flags().IntP("kmer", "k", 21, "k-mer size, hashes will be based on strings of this many nucleotides")
	sketchSize = sketchCmd.Flags().IntP("sketchSize", "s", 1000, "sketch size, each sketch will have at most this many non-redundant min-hashes")
	individual = sketchCmd.Flags().BoolP("individual", "i", false, "sketch individual sequences, rather than whole files")
	warning = sketchCmd.Flags().Float64P("warning", "w", 0.01, "probability threshold for warning about low k-mer size (0-1)")
	reads = sketchCmd.Flags().BoolP("reads", "r", false, "input is a read set, see -m and -c")
	minCov = sketchCmd.Flags().Float64P("minCov", "m", 1, "minimum copies of each k-mer required to pass noise filter for reads, implies -r")
	targetCov = sketchCmd.Flags().Float64P("targetCov", "c", 0, "target coverage, sketching will conclude if this coverage is reached before the end of the input file (estimated by average k-mer multiplicity), implies -r")
	noncanonical = sketchCmd.Flags().BoolP("noncanonical", "n", false, "preserve strand (by default, strand is ignored by using canonical DNA k-mers)")
	protein = sketchCmd.Flags().BoolP("protein", "a", false, "use amino acid alphabet (A-Z, except BJOUXZ), implies -n")
	RootCmd.AddCommand(sketchCmd)
}

// sketchRequest holds everything a sketch run needs, so runs can be driven without cobra
type sketchRequest struct {
	options     params.Options
	list        bool
	prefix      string
	verbosity   int
	metricsFile string
	outName     string // set once the sketch is written
}

//  a function to check user supplied parameters
func sketchParamCheck(options *params.Options) error {
	if options.KmerSize < 1 || options.KmerSize > params.MaxKmerSize {
		return fmt.Errorf("k-mer size must be between 1 and %d", params.MaxKmerSize)
	}
	if options.SketchSize < 1 {
		return fmt.Errorf("sketch size must be at least 1")
	}
	if options.Warning < 0 || options.Warning >= 1 {
		return fmt.Errorf("warning threshold must be at least 0 and less than 1")
	}
	if options.MinCov < 0 || options.TargetCov < 0 {
		return fmt.Errorf("coverage options can't be negative")
	}

	// set number of processors to use
	if options.Threads <= 0 || options.Threads > runtime.NumCPU() {
		options.Threads = runtime.NumCPU()
	}
	return nil
}

/*
  The main function for the sketch command
*/
func (request *sketchRequest) run(args []string, _ io.Writer, logger *zap.SugaredLogger) error {
	logger.Debugf("mash (version %s)", version.GetVersion())
	logger.Debugf("starting the sketch subcommand")

	// resolve and check the options before anything is opened
	logger.Debugf("checking parameters...")
	if err := sketchParamCheck(&request.options); err != nil {
		return err
	}
	parameters := params.Resolve(request.options)
	if err := params.Validate(&parameters); err != nil {
		return err
	}
	logger.Debugf("\tthreads: %d", parameters.Parallelism)
	logger.Debugf("\tk-mer size: %d", parameters.KmerSize)
	logger.Debugf("\tsketch size: %d", parameters.SketchSize)
	logger.Debugf("\talphabet: %s (canonical: %t)", parameters.Alphabet, parameters.Canonical())
	logger.Debugf("\tconcatenated: %t", parameters.Concatenated)
	logger.Debugf("\treads: %t (min. coverage: %g, target coverage: %g)", parameters.Reads, parameters.MinCov, parameters.TargetCov)

	// collect the sources
	sources, err := inputs.Aggregate(args, request.list)
	if err != nil {
		return err
	}
	metrics.InputsAggregated.Add(float64(len(sources)))
	if len(sources) == 0 {
		return errNoInputs
	}
	if err := inputs.CheckSketches(sources); err != nil {
		return err
	}
	logger.Debugf("\tnumber of inputs: %d", len(sources))

	// sketch, check the k-mer size against what was read, then write
	logger.Debugf("sketching...")
	sk, err := sketch.InitFromFiles(sources, parameters, request.verbosity, logger)
	if err != nil {
		return err
	}
	finding := adequacy.Check(&parameters, sk.Stats())
	outName := params.OutputName(request.prefix, sources, &parameters)
	logger.Infof("Writing to %s...", outName)
	if err := sk.WriteToFile(outName); err != nil {
		return err
	}
	metrics.SketchesWritten.Inc()
	if finding != nil {
		metrics.AdequacyViolations.Add(float64(finding.ViolationCount))
		logger.Warn(finding.String())
	}
	if request.metricsFile != "" {
		if err := metrics.WriteTextfile(request.metricsFile); err != nil {
			return err
		}
	}
	request.outName = outName
	logger.Debugf("finished")
	return nil
}
