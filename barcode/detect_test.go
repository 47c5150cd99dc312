package barcode_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/feliixx/gobarcode/barcode"
)

func fastqOf(seqs ...string) string {
	var sb strings.Builder
	for i, seq := range seqs {
		fmt.Fprintf(&sb, "@read%d\n%s\n+\n%s\n", i+1, seq, strings.Repeat("I", len(seq)))
	}
	return sb.String()
}

func mustWhitelist(t *testing.T, barcodes ...string) *barcode.Whitelist {
	t.Helper()
	wl, err := barcode.NewWhitelist(barcodes)
	if err != nil {
		t.Fatal(err)
	}
	return wl
}

func TestDetect(t *testing.T) {

	tests := []struct {
		name    string
		seqs    []string
		want    barcode.Transform
		matches int
	}{
		{
			name:    "forward",
			seqs:    []string{"NNAACCNN"},
			want:    barcode.Transform{Offset: 2, Length: 4},
			matches: 1,
		},
		{
			name:    "reverse complement",
			seqs:    []string{"NNGGTTNN"},
			want:    barcode.Transform{Offset: 2, Length: 4, ReverseComplement: true},
			matches: 1,
		},
		{
			name:    "tie between orientations",
			seqs:    []string{"NAACCN", "NNGGTT"},
			want:    barcode.Transform{Offset: 1, Length: 4},
			matches: 1,
		},
		{
			name:    "tie between offsets",
			seqs:    []string{"NNNAACC", "NAACCNN"},
			want:    barcode.Transform{Offset: 1, Length: 4},
			matches: 1,
		},
		{
			name:    "majority offset",
			seqs:    []string{"AACCNNNN", "NNNAACCN", "NNNAACCN", "NNGGTTNN"},
			want:    barcode.Transform{Offset: 3, Length: 4},
			matches: 2,
		},
		{
			name:    "reverse strictly better",
			seqs:    []string{"AACCNNNN", "NNNGGTTN", "NNNGGTTN"},
			want:    barcode.Transform{Offset: 3, Length: 4, ReverseComplement: true},
			matches: 2,
		},
		{
			name: "no match",
			seqs: []string{"NNNNNNNN", "ACGTACGT"},
			want: barcode.Transform{Offset: 0, Length: 4},
		},
		{
			name:    "reads shorter than barcode",
			seqs:    []string{"AAC", "", "NAACC"},
			want:    barcode.Transform{Offset: 1, Length: 4},
			matches: 1,
		},
		{
			name: "empty input",
			want: barcode.Transform{Offset: 0, Length: 4},
		},
	}

	wl := mustWhitelist(t, "AACC")

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {

			d, err := barcode.Detect(strings.NewReader(fastqOf(test.seqs...)), wl, barcode.DefaultSampleSize)
			if err != nil {
				t.Fatal(err)
			}
			if d.Transform != test.want {
				t.Errorf("expected %v but got %v", test.want, d.Transform)
			}
			if d.Matches != test.matches {
				t.Errorf("expected %d matches but got %d", test.matches, d.Matches)
			}
			if d.Sampled != len(test.seqs) {
				t.Errorf("expected %d sampled records but got %d", len(test.seqs), d.Sampled)
			}
		})
	}
}

func TestDetectSampleSize(t *testing.T) {

	// the first two reads point at offset 0, the last three at offset 2
	in := fastqOf("AACCNN", "AACCNN", "NNAACC", "NNAACC", "NNAACC")
	wl := mustWhitelist(t, "AACC")

	tests := []struct {
		sampleSize int
		sampled    int
		offset     int
	}{
		{sampleSize: 2, sampled: 2, offset: 0},
		{sampleSize: 10, sampled: 5, offset: 2},
		{sampleSize: 0, sampled: 5, offset: 2},
	}

	for _, test := range tests {
		d, err := barcode.Detect(strings.NewReader(in), wl, test.sampleSize)
		if err != nil {
			t.Fatal(err)
		}
		if d.Sampled != test.sampled || d.Offset != test.offset {
			t.Errorf("sample size %d: expected %d records and offset %d, got %d and %d",
				test.sampleSize, test.sampled, test.offset, d.Sampled, d.Offset)
		}
	}
}

func TestDetectionMatchRate(t *testing.T) {

	d := barcode.Detection{Sampled: 4, Matches: 3}
	if d.MatchRate() != 0.75 {
		t.Errorf("expected 0.75 but got %v", d.MatchRate())
	}
	if (barcode.Detection{}).MatchRate() != 0 {
		t.Error("expected 0 for an empty sample")
	}
}
