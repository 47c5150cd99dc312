// Package stream opens input and output files, transparently
// handling compression.
//
// Compressed inputs are recognized by their magic bytes, whatever
// their name. Outputs are compressed according to their suffix:
//
//	.gz   gzip, fastest level
//	.zst  zstd, fastest level
//	.sz   snappy framing format
//
// The path "-" stands for stdin or stdout.
package stream

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// Format is a compression format
type Format int

const (
	Plain Format = iota
	Gzip
	Zstd
	Snappy
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	}
	return "plain"
}

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// Detect returns the format matching the first bytes of a stream
func Detect(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	case bytes.HasPrefix(header, snappyMagic):
		return Snappy
	}
	return Plain
}

// FormatFromName returns the format selected by the suffix of
// an output file name
func FormatFromName(name string) Format {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return Gzip
	case strings.HasSuffix(name, ".zst"):
		return Zstd
	case strings.HasSuffix(name, ".sz"):
		return Snappy
	}
	return Plain
}

// multiCloser closes all its closers in order, and returns
// the first error
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var err error
	for _, c := range m {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type readCloser struct {
	io.Reader
	multiCloser
}

type writeCloser struct {
	io.Writer
	multiCloser
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Open opens a file for reading, decompressing it if required
func Open(path string) (io.ReadCloser, error) {

	if path == "-" {
		return NewReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %q: %w", path, err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not read file %q: %w", path, err)
	}
	return readCloser{Reader: r, multiCloser: multiCloser{r, f}}, nil
}

// NewReader sniffs the first bytes of in and returns a reader
// decompressing it if required. Closing the returned reader
// does not close in.
func NewReader(in io.Reader) (io.ReadCloser, error) {

	br := bufio.NewReader(in)
	// an error here means the stream is shorter than the magic,
	// so it can only be plain text
	header, _ := br.Peek(len(snappyMagic))

	switch Detect(header) {
	case Gzip:
		gr, err := pgzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(br)), nil
	}
	return io.NopCloser(br), nil
}

// Create creates or truncates a file for writing, compressing
// it according to its suffix
func Create(path string) (io.WriteCloser, error) {
	return create(path, FormatFromName(path))
}

// CreatePlain creates or truncates a file for writing, without
// compression whatever its suffix
func CreatePlain(path string) (io.WriteCloser, error) {
	return create(path, Plain)
}

func create(path string, format Format) (io.WriteCloser, error) {

	if path == "-" {
		return NewWriter(nopWriteCloser{os.Stdout}, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create file %q: %w", path, err)
	}

	w, err := NewWriter(f, format)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter returns a writer compressing to out with the given format.
// Closing it flushes the compressor, then closes out.
func NewWriter(out io.WriteCloser, format Format) (io.WriteCloser, error) {

	switch format {
	case Gzip:
		gw, err := pgzip.NewWriterLevel(out, pgzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		return writeCloser{Writer: gw, multiCloser: multiCloser{gw, out}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, err
		}
		return writeCloser{Writer: zw, multiCloser: multiCloser{zw, out}}, nil
	case Snappy:
		sw := snappy.NewBufferedWriter(out)
		return writeCloser{Writer: sw, multiCloser: multiCloser{sw, out}}, nil
	}
	return out, nil
}
