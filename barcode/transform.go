package barcode

import (
	"errors"
	"fmt"
	"io"

	"github.com/feliixx/gobarcode/fastq"
)

// ErrRecordTooShort is returned with the Abort policy when a read
// doesn't hold the whole barcode window
var ErrRecordTooShort = errors.New("record too short for barcode window")

// Stats summarizes a run of TransformAndCount
type Stats struct {
	// complete records read from the input
	Records int `json:"records"`
	// records written to the output, and counted
	Emitted int `json:"emitted"`
	// records too short to hold the whole barcode window
	TooShort int `json:"too_short"`
	// emitted barcodes found in the whitelist
	WhitelistMatches int `json:"whitelist_matches"`
	// true if the input ends with a partial record, which is dropped
	Truncated bool `json:"truncated"`
}

// TransformAndCount reads every fastq record from in, keeps only its barcode
// as described by t, writes the record to out and counts each barcode.
//
// Records are written in input order. The whitelist is only used to report
// how many barcodes it holds, no record is filtered out.
func TransformAndCount(in io.Reader, out io.Writer, t Transform, wl *Whitelist, options Options) (Counts, *Stats, error) {

	policy, err := ParseTooShortPolicy(string(options.TooShort))
	if err != nil {
		return nil, nil, err
	}
	log := options.logger()

	counts := Counts{}
	stats := &Stats{}

	r := fastq.NewReader(in)
	w := fastq.NewWriter(out)
	var record fastq.Record

	for {
		err := r.Read(&record)
		if err == io.EOF {
			break
		}
		if errors.Is(err, fastq.ErrTruncatedRecord) {
			stats.Truncated = true
			log.WithError(err).Warn("dropping partial record at end of input")
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Records = r.Count()

		if options.ProgressEvery > 0 && stats.Records%options.ProgressEvery == 0 {
			log.WithField("records", stats.Records).Info("Processed records so far...")
		}

		if !record.Covers(t.Offset, t.Length) {
			stats.TooShort++
			switch policy {
			case Skip:
				continue
			case Abort:
				return nil, stats, fmt.Errorf("%w: record %d (%s) has %d bases, barcode window is [%d, %d)",
					ErrRecordTooShort, stats.Records, record.ID, len(record.Seq), t.Offset, t.Offset+t.Length)
			}
		}

		if err := record.Transform(t.Offset, t.Length, t.ReverseComplement); err != nil {
			return nil, stats, fmt.Errorf("record %d: %w", stats.Records, err)
		}

		if err := w.Write(&record); err != nil {
			return nil, stats, err
		}
		counts.Add(record.Seq)
		stats.Emitted = w.Count()

		if wl != nil && wl.Contains(record.Seq) {
			stats.WhitelistMatches++
		}
	}

	if err := w.Flush(); err != nil {
		return nil, stats, err
	}
	return counts, stats, nil
}
