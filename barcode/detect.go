package barcode

import (
	"errors"
	"fmt"
	"io"

	"github.com/feliixx/gobarcode/fastq"
)

// Transform describes where the barcode is in a read: the window
// [Offset, Offset+Length) of the sequence, to reverse complement
// if ReverseComplement is true
type Transform struct {
	Offset            int  `json:"offset"`
	Length            int  `json:"length"`
	ReverseComplement bool `json:"reverse_complement"`
}

func (t Transform) String() string {
	return fmt.Sprintf("offset=%d length=%d rc=%v", t.Offset, t.Length, t.ReverseComplement)
}

// Detection is the result of Detect
type Detection struct {
	Transform
	// number of records read
	Sampled int `json:"sampled"`
	// number of sampled records with a whitelist barcode at the
	// detected offset, in the detected orientation
	Matches int `json:"matches"`
	// true if the sample stopped on a partial record
	Truncated bool `json:"truncated"`
}

// MatchRate returns the share of sampled records supporting the transform
func (d Detection) MatchRate() float64 {
	if d.Sampled == 0 {
		return 0
	}
	return float64(d.Matches) / float64(d.Sampled)
}

// Detect reads up to sampleSize records from in and finds the offset and
// orientation where whitelist barcodes are the most frequent.
//
// Every window of each read is looked up both in the whitelist and in the
// reverse complemented whitelist. The offset with the highest count wins,
// the lowest offset on ties. The reverse orientation is selected only if
// its best count is strictly higher than the forward one.
//
// If no window matches, the result is offset 0, forward orientation,
// with Matches set to 0.
func Detect(in io.Reader, wl *Whitelist, sampleSize int) (Detection, error) {

	bcLen := wl.Len()
	d := Detection{
		Transform: Transform{Length: bcLen},
	}

	// match counts per offset
	var fwd, rc []int

	r := fastq.NewReader(in)
	var record fastq.Record

	for sampleSize <= 0 || r.Count() < sampleSize {

		err := r.Read(&record)
		if err == io.EOF {
			break
		}
		if errors.Is(err, fastq.ErrTruncatedRecord) {
			d.Truncated = true
			break
		}
		if err != nil {
			return d, err
		}
		d.Sampled = r.Count()

		seq := record.Seq
		last := len(seq) - bcLen
		for len(fwd) <= last {
			fwd = append(fwd, 0)
			rc = append(rc, 0)
		}

		for offset := 0; offset <= last; offset++ {
			window := seq[offset : offset+bcLen]
			if wl.Contains(window) {
				fwd[offset]++
			}
			if wl.ContainsRC(window) {
				rc[offset]++
			}
		}
	}

	fwdOffset, fwdMatches := best(fwd)
	rcOffset, rcMatches := best(rc)

	if rcMatches > fwdMatches {
		d.Offset, d.Matches, d.ReverseComplement = rcOffset, rcMatches, true
	} else {
		d.Offset, d.Matches = fwdOffset, fwdMatches
	}
	return d, nil
}

// best returns the first offset with the highest count
func best(counts []int) (offset, matches int) {
	for i, n := range counts {
		if n > matches {
			offset, matches = i, n
		}
	}
	return offset, matches
}
