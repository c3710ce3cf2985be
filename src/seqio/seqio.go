/*
	the seqio package contains custom types and methods for opening, decoding and holding sequence data
*/
package seqio

import (
	"errors"

	"github.com/fbreitwieser/Mash/src/minhash"
	"github.com/fbreitwieser/Mash/src/params"
)

// Sequence is the base type for a FASTA record or FASTQ read
type Sequence struct {
	ID      string
	Comment string
	Seq     []byte
}

// Len returns the number of residues held
func (Sequence *Sequence) Len() int {
	return len(Sequence.Seq)
}

// BaseCheck is a method to convert residues to upper case, nucleotide sequences also have anything
// other than ACGT replaced by N so that the hasher skips those k-mers
func (Sequence *Sequence) BaseCheck(alphabet params.Alphabet) {
	for i, j := 0, len(Sequence.Seq); i < j; i++ {
		base := Sequence.Seq[i]
		if base >= 'a' && base <= 'z' {
			base -= 'a' - 'A'
		}
		if alphabet == params.Nucleotide {
			switch base {
			case 'A', 'C', 'G', 'T':
			default:
				base = 'N'
			}
		}
		Sequence.Seq[i] = base
	}
}

// RunMinHash is a method to add the sequence's k-mers to a MinHash sketch, a sequence shorter than k adds nothing
func (Sequence *Sequence) RunMinHash(mh minhash.MinHash) error {
	err := mh.AddSequence(Sequence.Seq)
	if errors.Is(err, minhash.ErrShortSequence) {
		return nil
	}
	return err
}
