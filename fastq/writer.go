package fastq

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// size of the buffer for writing to file
	maxBufferSize = 1024 * 1024 * 4
)

// Writer writes fastq records to an io.Writer. Records are
// accumulated in memory and written once the buffer is full,
// so Flush must be called once all records are written.
type Writer struct {
	out   io.Writer
	buf   *bytes.Buffer
	count int
}

// NewWriter returns a Writer writing to out
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		out: out,
		buf: bytes.NewBuffer(make([]byte, 0, maxBufferSize)),
	}
}

// Count returns the number of records written so far
func (w *Writer) Count() int {
	return w.count
}

// Write appends a record to the buffer, flushing it if required
func (w *Writer) Write(record *Record) error {

	w.writeLine(record.ID)
	w.writeLine(record.Seq)
	w.writeLine(record.Comment)
	w.writeLine(record.Qual)
	w.count++

	if w.buf.Len() > maxBufferSize {
		return w.Flush()
	}
	return nil
}

func (w *Writer) writeLine(line []byte) {
	w.buf.Write(line)
	w.buf.WriteByte('\n')
}

// Flush writes the buffered records to the underlying writer
func (w *Writer) Flush() error {

	_, err := w.out.Write(w.buf.Bytes())
	w.buf.Reset()
	if err != nil {
		return fmt.Errorf("fail to write to output file: %w", err)
	}
	return nil
}
