// Package inputs collects the sequence sources named on the command line
package inputs

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/fbreitwieser/Mash/src/params"
	"github.com/fbreitwieser/Mash/src/seqio"
)

// Aggregate flattens the positional arguments into the ordered list of sources. With list set, each
// argument names a file holding one source per line; blank lines are skipped and whitespace is trimmed.
func Aggregate(args []string, list bool) ([]string, error) {
	if !list {
		return append([]string(nil), args...), nil
	}
	sources := []string{}
	for _, listFile := range args {
		fh, err := seqio.Open(listFile)
		if err != nil {
			return nil, errors.Wrap(err, "could not read list file")
		}
		scanner := bufio.NewScanner(fh)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				sources = append(sources, line)
			}
		}
		err = scanner.Err()
		fh.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "could not read list file %s", listFile)
		}
	}
	return sources, nil
}

// CheckSketches refuses sources that are already sketches
func CheckSketches(sources []string) error {
	for _, source := range sources {
		if strings.HasSuffix(source, params.SuffixSketch) || strings.HasSuffix(source, params.SuffixSketchWindowed) {
			return fmt.Errorf("%s looks like it is already sketched", source)
		}
	}
	return nil
}
