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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fbreitwieser/Mash/src/misc"
)

// errNoInputs sends the user back to the usage when there is nothing to work on
var errNoInputs = errors.New("no input sources")

// runner is implemented by the request type of each subcommand
type runner interface {
	run(args []string, w io.Writer, logger *zap.SugaredLogger) error
}

// the command line arguments
var (
	proc        *int    // number of processors to use
	profiling   *bool   // create profile for go pprof
	logFile     *string // write the log here instead of STDERR
	logLevel    *string // debug, info, warn or error
	metricsFile *string // dump run counters here in the Prometheus text format
	verbose     *int    // repeat for more output
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mash",
	Short: "fast genome and metagenome distance estimation using MinHash",
	Long: `
#####################################################################################
		Mash: fast genome and metagenome distance estimation using MinHash
#####################################################################################

 Mash reduces large sequences and sequence sets to small, representative sketches,
 from which global mutation distances can be rapidly estimated.

 The sketch command builds sketch files from FASTA or FASTQ input, the info command
 describes a sketch file.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

/*
  A function to add all child commands to the root command and sets flags appropriately
*/
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

/*
  A function to initalise the command line arguments
*/
func init() {
	proc = RootCmd.PersistentFlags().IntP("threads", "p", 1, "parallelism, this many inputs are sketched at once")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile mash using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "", "filename for log file (default STDERR)")
	logLevel = RootCmd.PersistentFlags().String("logLevel", "info", "log level (debug, info, warn, error)")
	metricsFile = RootCmd.PersistentFlags().String("metrics", "", "write run counters to this file in the Prometheus text format")
	verbose = RootCmd.PersistentFlags().CountP("verbose", "v", "verbose output, use -vv for a progress bar")
}

// execute sets up profiling and logging for a subcommand and then runs its request
func execute(cmd *cobra.Command, request runner, args []string) error {
	if *profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	logger, err := misc.StartLogging(*logFile, *logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if err := request.run(args, os.Stdout, logger); err != nil {
		if errors.Is(err, errNoInputs) {
			return cmd.Help()
		}
		return err
	}
	return nil
}
