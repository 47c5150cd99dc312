package barcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/feliixx/gobarcode/nucleotide"
	"github.com/feliixx/gobarcode/stream"
)

var (
	// ErrInconsistentBarcodeLength is returned when the barcodes of a
	// whitelist don't all have the same length
	ErrInconsistentBarcodeLength = errors.New("barcodes in the whitelist are not all the same length")
	// ErrEmptyWhitelist is returned when a whitelist holds no barcode
	ErrEmptyWhitelist = errors.New("barcode whitelist is empty")
)

// Whitelist is an immutable set of barcodes sharing the same length,
// along with the set of their reverse complements
type Whitelist struct {
	barcodes map[string]struct{}
	rc       map[string]struct{}
	length   int
}

// NewWhitelist builds a whitelist from a list of barcodes. Duplicates
// are ignored.
func NewWhitelist(barcodes []string) (*Whitelist, error) {

	if len(barcodes) == 0 {
		return nil, ErrEmptyWhitelist
	}

	wl := &Whitelist{
		barcodes: make(map[string]struct{}, len(barcodes)),
		rc:       make(map[string]struct{}, len(barcodes)),
		length:   len(barcodes[0]),
	}

	for _, bc := range barcodes {
		if len(bc) != wl.length {
			return nil, fmt.Errorf("%w: %q has length %d, %q has length %d",
				ErrInconsistentBarcodeLength, barcodes[0], wl.length, bc, len(bc))
		}
		rc, err := nucleotide.ReverseComplementString(bc)
		if err != nil {
			return nil, fmt.Errorf("invalid barcode %q in whitelist: %w", bc, err)
		}
		wl.barcodes[bc] = struct{}{}
		wl.rc[rc] = struct{}{}
	}
	return wl, nil
}

// LoadWhitelist reads one barcode per line. Blank lines and
// lines starting with '#' are skipped.
func LoadWhitelist(r io.Reader) (*Whitelist, error) {

	var barcodes []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		bc := strings.TrimSpace(scanner.Text())
		if bc == "" || strings.HasPrefix(bc, "#") {
			continue
		}
		barcodes = append(barcodes, bc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fail to read barcode whitelist: %w", err)
	}
	return NewWhitelist(barcodes)
}

// ReadWhitelistFile loads a whitelist from a file, which may be compressed
func ReadWhitelistFile(path string) (*Whitelist, error) {

	f, err := stream.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wl, err := LoadWhitelist(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wl, nil
}

// Len returns the length shared by all barcodes
func (wl *Whitelist) Len() int {
	return wl.length
}

// Size returns the number of distinct barcodes
func (wl *Whitelist) Size() int {
	return len(wl.barcodes)
}

// Contains returns true if seq is a barcode of the whitelist
func (wl *Whitelist) Contains(seq []byte) bool {
	_, ok := wl.barcodes[string(seq)]
	return ok
}

// ContainsRC returns true if seq is the reverse complement of a
// barcode of the whitelist
func (wl *Whitelist) ContainsRC(seq []byte) bool {
	_, ok := wl.rc[string(seq)]
	return ok
}
