package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrTruncatedRecord is returned when the input ends in the
// middle of a record. The partial record is dropped.
var ErrTruncatedRecord = errors.New("truncated fastq record")

const (
	// size of the read buffer
	readBufferSize = 1024 * 64
)

// Reader reads fastq records from an io.Reader. The fastq format is:
//
//	@readID optional comment
//	ACGTTGACGTAGCAGTAC
//	+
//	FFFFF:FFFFFFF,FFFF
//
// Markers '@' and '+' are not checked, every group of four lines
// is a record.
type Reader struct {
	r     *bufio.Reader
	count int
}

// NewReader returns a Reader reading from r
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r: bufio.NewReaderSize(r, readBufferSize),
	}
}

// Count returns the number of complete records read so far
func (r *Reader) Count() int {
	return r.count
}

// Read fills record with the next four lines of the input. It returns
// io.EOF when there is no record left, and an error wrapping
// ErrTruncatedRecord if the input stops before the fourth line.
func (r *Reader) Read(record *Record) error {

	lines := [4]*[]byte{&record.ID, &record.Seq, &record.Comment, &record.Qual}

	for i, dst := range lines {
		line, err := r.readLine()
		if err == io.EOF {
			if i == 0 {
				return io.EOF
			}
			return fmt.Errorf("%w: input ends after %d line(s) of record %d", ErrTruncatedRecord, i, r.count+1)
		}
		if err != nil {
			return err
		}
		*dst = line
	}
	r.count++
	return nil
}

// readLine returns the next line without its line terminator. The last
// line of the input may lack the final '\n'.
func (r *Reader) readLine() ([]byte, error) {

	line, err := r.r.ReadBytes('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'}), nil
}
