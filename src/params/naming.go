package params

import "strings"

const (
	// SuffixSketch is appended to ordinary sketch files
	SuffixSketch = ".msh"
	// SuffixSketchWindowed is reserved for windowed sketch files
	SuffixSketchWindowed = ".msw"
	// StdinInput is the input source marker for standard input
	StdinInput = "-"
	// StdinName replaces StdinInput when naming the output
	StdinName = "stdin"
)

// Suffix returns the file suffix for sketches built with these parameters
func (Parameters *Parameters) Suffix() string {
	if Parameters.Windowed {
		return SuffixSketchWindowed
	}
	return SuffixSketch
}

// OutputName derives the sketch file name from an explicit prefix or the first input source.
// inputs must not be empty.
func OutputName(prefix string, inputs []string, parameters *Parameters) string {
	name := prefix
	if name == "" {
		name = inputs[0]
		if name == StdinInput {
			name = StdinName
		}
	}
	suffix := parameters.Suffix()
	if !strings.HasSuffix(name, suffix) {
		name += suffix
	}
	return name
}
