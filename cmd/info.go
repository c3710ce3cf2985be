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
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fbreitwieser/Mash/src/adequacy"
	"github.com/fbreitwieser/Mash/src/misc"
	"github.com/fbreitwieser/Mash/src/reporting"
	"github.com/fbreitwieser/Mash/src/seqio"
	"github.com/fbreitwieser/Mash/src/sketch"
)

// the command line arguments
var (
	infoTOML *bool   // print the summary as TOML
	infoPlot *string // save a plot of reference lengths here
)

// the info command (used by cobra)
var infoCmd = &cobra.Command{
	Use:   "info [options] <sketch>",
	Short: "Display information about sketch files",
	Long: `Display information about a sketch file: the parameters it was built with and one line
per sketched reference. The k-mer size check done when sketching is repeated for the stored
references.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := &infoRequest{
			toml: *infoTOML,
			plot: *infoPlot,
		}
		return execute(cmd, request, args)
	},
}

// a function to initialise the command line arguments
func init() {
	infoTOML = infoCmd.Flags().BoolP("toml", "t", false, "print the sketch summary as TOML")
	infoPlot = infoCmd.Flags().String("plot", "", "save a histogram of reference lengths (PNG) to this file")
	RootCmd.AddCommand(infoCmd)
}

// infoRequest holds everything an info run needs
type infoRequest struct {
	toml bool
	plot string
}

/*
  The main function for the info command
*/
func (request *infoRequest) run(args []string, w io.Writer, logger *zap.SugaredLogger) error {
	if len(args) != 1 {
		return errNoInputs
	}
	sketchFile := args[0]
	if !seqio.IsRemote(sketchFile) {
		if err := misc.CheckFile(sketchFile); err != nil {
			return err
		}
	}
	if err := misc.CheckExt(sketchFile, []string{"msh", "msw"}); err != nil {
		return err
	}
	sk, err := sketch.Load(sketchFile)
	if err != nil {
		return err
	}
	summary := reporting.NewSummary(sk)
	if request.toml {
		err = summary.WriteTOML(w)
	} else {
		err = summary.WriteTable(w)
	}
	if err != nil {
		return err
	}

	// same check as at sketch time
	stats := sk.Stats()
	if finding := adequacy.Check(&sk.Parameters, stats); finding != nil {
		logger.Warn(finding.String())
	}
	if request.plot != "" {
		threshold := adequacy.LengthThreshold(sk.Parameters.Warning, sk.Parameters.Alphabet.Size(), sk.Parameters.KmerSize)
		if err := reporting.PlotLengths(stats, threshold, request.plot); err != nil {
			return err
		}
		logger.Infof("Plot written to %s", request.plot)
	}
	return nil
}
