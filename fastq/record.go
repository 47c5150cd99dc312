// Package fastq reads and writes four-line FASTQ records and
// applies barcode transforms to them.
package fastq

import (
	"fmt"

	"github.com/feliixx/gobarcode/nucleotide"
)

// Record holds the four lines of a fastq record, without their
// trailing newline. ID keeps its leading '@' and Comment its
// leading '+', so a record is written back exactly as it was read.
type Record struct {
	ID      []byte
	Seq     []byte
	Comment []byte
	Qual    []byte
}

// Covers returns true if the sequence holds the whole
// window [offset, offset+length)
func (r *Record) Covers(offset, length int) bool {
	return offset >= 0 && offset+length <= len(r.Seq)
}

// Transform keeps only the window [offset, offset+length) of the sequence
// and of the quality string. If rc is true, the sequence is replaced by its
// reverse complement and the quality string is reversed (not complemented)
// so each score stays with its base.
//
// A window running past the end of the record is clamped to the
// available bytes, use Covers to detect it beforehand.
func (r *Record) Transform(offset, length int, rc bool) error {

	r.Seq = window(r.Seq, offset, length)
	r.Qual = window(r.Qual, offset, length)

	if !rc {
		return nil
	}

	seq, err := nucleotide.ReverseComplement(r.Seq)
	if err != nil {
		return fmt.Errorf("fail to transform record %s: %w", r.ID, err)
	}
	r.Seq = seq

	for i, j := 0, len(r.Qual)-1; i < j; i, j = i+1, j-1 {
		r.Qual[i], r.Qual[j] = r.Qual[j], r.Qual[i]
	}
	return nil
}

func window(b []byte, offset, length int) []byte {
	start, end := offset, offset+length
	if start > len(b) {
		start = len(b)
	}
	if end > len(b) {
		end = len(b)
	}
	return b[start:end]
}
