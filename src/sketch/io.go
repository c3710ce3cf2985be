package sketch

import (
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
	"github.com/pkg/errors"
	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/fbreitwieser/Mash/src/seqio"
)

// ErrBadSketch is returned by Load for files that don't hold a sketch
var ErrBadSketch = errors.New("not a sketch file")

// WriteToFile is a method to write the sketch to disk (or s3), as msgpack inside a BGZF container
func (Sketch *Sketch) WriteToFile(fileName string) error {
	b, err := msgpack.Marshal(Sketch)
	if err != nil {
		return errors.Wrap(err, "could not encode sketch")
	}
	fh, err := seqio.Create(fileName)
	if err != nil {
		return err
	}
	bw := bgzf.NewWriter(fh, 1)
	if _, err := bw.Write(b); err != nil {
		fh.Close()
		return errors.Wrapf(err, "could not write %s", fileName)
	}
	if err := bw.Close(); err != nil {
		fh.Close()
		return errors.Wrapf(err, "could not write %s", fileName)
	}
	return errors.Wrapf(fh.Close(), "could not write %s", fileName)
}

// Load is a function to read a sketch file written by WriteToFile
func Load(fileName string) (*Sketch, error) {
	fh, err := seqio.OpenRaw(fileName)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	// a local file can be checked for truncation before decoding
	if f, ok := fh.(*os.File); ok {
		hasEOF, err := bgzf.HasEOF(f)
		if err != nil {
			return nil, errors.Wrapf(ErrBadSketch, "%s: %v", fileName, err)
		}
		if !hasEOF {
			return nil, errors.Wrapf(ErrBadSketch, "%s has no bgzf EOF block, it may be truncated", fileName)
		}
	}
	br, err := bgzf.NewReader(fh, 1)
	if err != nil {
		return nil, errors.Wrapf(ErrBadSketch, "%s: %v", fileName, err)
	}
	defer br.Close()
	b, err := io.ReadAll(br)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", fileName)
	}
	if len(b) == 0 {
		return nil, errors.Wrapf(ErrBadSketch, "%s is empty", fileName)
	}
	sketch := &Sketch{}
	if err := msgpack.Unmarshal(b, sketch); err != nil {
		return nil, errors.Wrapf(ErrBadSketch, "%s: %v", fileName, err)
	}
	if sketch.Version == "" {
		return nil, errors.Wrapf(ErrBadSketch, "%s has no version", fileName)
	}
	return sketch, nil
}
