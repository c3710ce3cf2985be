// Package reporting summarises sketch files as a table, as TOML or as a plot of reference lengths
package reporting

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fbreitwieser/Mash/src/adequacy"
	"github.com/fbreitwieser/Mash/src/sketch"
)

// HISTBINS is the number of bins used for the length histogram
const HISTBINS int = 20

// Reference is the summary of one sketched reference
type Reference struct {
	Hashes  int    `toml:"hashes"`
	Length  uint64 `toml:"length"`
	Name    string `toml:"name"`
	Comment string `toml:"comment,omitempty"`
}

// Summary describes a sketch file
type Summary struct {
	Version    string      `toml:"version"`
	Alphabet   string      `toml:"alphabet"`
	KmerSize   int         `toml:"kmer"`
	SketchSize int         `toml:"sketchSize"`
	Canonical  bool        `toml:"canonical"`
	Reads      bool        `toml:"reads"`
	References []Reference `toml:"references"`
}

// NewSummary collects the header and per reference details of a sketch
func NewSummary(sk *sketch.Sketch) *Summary {
	summary := &Summary{
		Version:    sk.Version,
		Alphabet:   sk.Parameters.Alphabet.String(),
		KmerSize:   sk.Parameters.KmerSize,
		SketchSize: sk.Parameters.SketchSize,
		Canonical:  sk.Parameters.Canonical(),
		Reads:      sk.Parameters.Reads,
		References: make([]Reference, len(sk.References)),
	}
	for i, ref := range sk.References {
		summary.References[i] = Reference{
			Hashes:  len(ref.Hashes),
			Length:  ref.Length,
			Name:    ref.Name,
			Comment: ref.Comment,
		}
	}
	return summary
}

// WriteTable prints the summary as a header followed by one tab separated line per reference
func (Summary *Summary) WriteTable(w io.Writer) error {
	header := fmt.Sprintf("Header:\n  Mash version:\t%s\n  Alphabet:\t%s\n  K-mer size:\t%d\n  Sketch size:\t%d\n  Canonical:\t%t\n  Reads:\t%t\n\nSketches:\n[Hashes]\t[Length]\t[ID]\t[Comment]\n",
		Summary.Version, Summary.Alphabet, Summary.KmerSize, Summary.SketchSize, Summary.Canonical, Summary.Reads)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for _, ref := range Summary.References {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", ref.Hashes, ref.Length, ref.Name, ref.Comment); err != nil {
			return err
		}
	}
	return nil
}

// WriteTOML prints the summary as TOML
func (Summary *Summary) WriteTOML(w io.Writer) error {
	b, err := toml.Marshal(Summary)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// PlotLengths saves a histogram of log10 reference lengths, with the adequacy threshold marked when it is above 0
func PlotLengths(stats []adequacy.Stat, threshold uint64, fileName string) error {
	values := plotter.Values{}
	for _, stat := range stats {
		if stat.Length > 0 {
			values = append(values, math.Log10(float64(stat.Length)))
		}
	}
	if len(values) == 0 {
		return errors.New("no reference lengths to plot")
	}
	lengthPlot, err := plot.New()
	if err != nil {
		return err
	}
	lengthPlot.Title.Text = "reference lengths"
	lengthPlot.X.Label.Text = "log10(length)"
	lengthPlot.Y.Label.Text = "number of references"
	hist, err := plotter.NewHist(values, HISTBINS)
	if err != nil {
		return err
	}
	lengthPlot.Add(hist)

	// mark the longest length the k-mer size supports
	if threshold > 0 {
		top := 0.0
		for _, bin := range hist.Bins {
			top = math.Max(top, bin.Weight)
		}
		x := math.Log10(float64(threshold))
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
		if err != nil {
			return err
		}
		marker.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		lengthPlot.Add(marker)
		lengthPlot.Legend.Add("adequacy threshold", marker)
	}
	return lengthPlot.Save(8*vg.Inch, 6*vg.Inch, fileName)
}
