package barcode

import (
	"bufio"
	"io"
	"sort"
	"strconv"
)

// Counts maps each barcode to its number of occurrences
type Counts map[string]uint64

// Add increments the count of barcode
func (c Counts) Add(barcode []byte) {
	c[string(barcode)]++
}

// Total returns the sum of all counts
func (c Counts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

// Barcodes returns the counted barcodes in lexical order
func (c Counts) Barcodes() []string {
	barcodes := make([]string, 0, len(c))
	for bc := range c {
		barcodes = append(barcodes, bc)
	}
	sort.Strings(barcodes)
	return barcodes
}

// WriteTo writes one "<barcode>\t<count>" line per barcode,
// in lexical order
func (c Counts) WriteTo(out io.Writer) (int64, error) {

	w := bufio.NewWriter(out)
	var written int64
	line := make([]byte, 0, 64)

	for _, bc := range c.Barcodes() {
		line = append(line[:0], bc...)
		line = append(line, '\t')
		line = strconv.AppendUint(line, c[bc], 10)
		line = append(line, '\n')

		n, err := w.Write(line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, w.Flush()
}
