package seqio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/fbreitwieser/Mash/src/params"
)

// Format is the record format detected for a source
type Format int

const (
	// FASTA records start with '>'
	FASTA Format = iota
	// FASTQ reads start with '@'
	FASTQ
)

// String is the stringer for Format
func (Format Format) String() string {
	if Format == FASTQ {
		return "FASTQ"
	}
	return "FASTA"
}

// sequenceReader is satisfied by both biogo record readers
type sequenceReader interface {
	Read() (seq.Sequence, error)
}

// Reader decodes FASTA or FASTQ records from a stream, the format is detected from the first record
type Reader struct {
	reader   sequenceReader
	alphabet params.Alphabet
	format   Format
	records  int
}

// NewReader is the constructor, an empty stream has no records and is an error
func NewReader(r io.Reader, alpha params.Alphabet) (*Reader, error) {
	br := bufio.NewReader(r)

	// skip any leading blank lines to find the record marker
	var first byte
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil, ErrNoSequences
			}
			return nil, err
		}
		if b[0] != '\n' && b[0] != '\r' && b[0] != ' ' && b[0] != '\t' {
			first = b[0]
			break
		}
		if _, err := br.ReadByte(); err != nil {
			return nil, err
		}
	}
	var template alphabet.Alphabet = alphabet.DNA
	if alpha == params.Protein {
		template = alphabet.Protein
	}
	Reader := &Reader{alphabet: alpha}
	switch first {
	case '>':
		Reader.format = FASTA
		Reader.reader = fasta.NewReader(br, linear.NewSeq("", nil, template))
	case '@':
		Reader.format = FASTQ
		Reader.reader = fastq.NewReader(br, linear.NewQSeq("", nil, template, alphabet.Sanger))
	default:
		return nil, fmt.Errorf("%w (first character: %q)", ErrUnknownFormat, first)
	}
	return Reader, nil
}

// Format returns the detected record format
func (Reader *Reader) Format() Format {
	return Reader.format
}

// Next returns the next record, upper cased and checked against the alphabet, or io.EOF
func (Reader *Reader) Next() (*Sequence, error) {
	s, err := Reader.reader.Read()
	if err != nil {
		if err == io.EOF && Reader.records == 0 {
			return nil, ErrNoSequences
		}
		return nil, err
	}
	Reader.records++
	residues := make([]byte, 0, s.Len())
	for i := s.Start(); i < s.End(); i++ {
		residues = append(residues, byte(s.At(i).L))
	}
	record := &Sequence{
		ID:      s.Name(),
		Comment: s.Description(),
		Seq:     residues,
	}
	record.BaseCheck(Reader.alphabet)
	return record, nil
}
