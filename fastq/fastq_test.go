package fastq_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/feliixx/gobarcode/fastq"
	"github.com/feliixx/gobarcode/nucleotide"
)

const twoRecords = `@read1 1:N:0
NNAACCNN
+
ABCDEFGH
@read2
NNGGTTNN
+read2
abcdefgh
`

func readAll(t *testing.T, in string) ([]fastq.Record, error) {
	t.Helper()

	r := fastq.NewReader(strings.NewReader(in))
	var records []fastq.Record
	for {
		var rec fastq.Record
		err := r.Read(&rec)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

func TestReader(t *testing.T) {

	records, err := readAll(t, twoRecords)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records but got %d", len(records))
	}

	rec := records[1]
	if string(rec.ID) != "@read2" || string(rec.Seq) != "NNGGTTNN" || string(rec.Comment) != "+read2" || string(rec.Qual) != "abcdefgh" {
		t.Errorf("wrong record: %q %q %q %q", rec.ID, rec.Seq, rec.Comment, rec.Qual)
	}
}

func TestReaderLineEndings(t *testing.T) {

	tests := []struct {
		name string
		in   string
	}{
		{name: "no final newline", in: "@r\nACGT\n+\nIIII"},
		{name: "crlf", in: "@r\r\nACGT\r\n+\r\nIIII\r\n"},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			records, err := readAll(t, test.in)
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 record but got %d", len(records))
			}
			if string(records[0].Seq) != "ACGT" || string(records[0].Qual) != "IIII" {
				t.Errorf("wrong record: %q %q", records[0].Seq, records[0].Qual)
			}
		})
	}
}

func TestReaderTruncated(t *testing.T) {

	for missing := 1; missing < 4; missing++ {

		lines := strings.Split(strings.TrimSuffix(twoRecords, "\n"), "\n")
		in := strings.Join(lines[:len(lines)-missing], "\n") + "\n"

		r := fastq.NewReader(strings.NewReader(in))
		var rec fastq.Record
		if err := r.Read(&rec); err != nil {
			t.Fatal(err)
		}
		err := r.Read(&rec)
		if !errors.Is(err, fastq.ErrTruncatedRecord) {
			t.Errorf("%d missing line(s): expected ErrTruncatedRecord, got %v", missing, err)
		}
		if r.Count() != 1 {
			t.Errorf("%d missing line(s): expected 1 complete record, got %d", missing, r.Count())
		}
	}
}

func TestTransform(t *testing.T) {

	tests := []struct {
		name     string
		seq      string
		qual     string
		offset   int
		length   int
		rc       bool
		wantSeq  string
		wantQual string
	}{
		{name: "forward", seq: "NNAACCNN", qual: "ABCDEFGH", offset: 2, length: 4, wantSeq: "AACC", wantQual: "CDEF"},
		{name: "reverse", seq: "NNGGTTNN", qual: "ABCDEFGH", offset: 2, length: 4, rc: true, wantSeq: "AACC", wantQual: "FEDC"},
		{name: "whole read", seq: "ACGT", qual: "ABCD", offset: 0, length: 4, rc: true, wantSeq: "ACGT", wantQual: "DCBA"},
		{name: "clamped end", seq: "ACGTAC", qual: "ABCDEF", offset: 4, length: 4, wantSeq: "AC", wantQual: "EF"},
		{name: "offset past end", seq: "ACG", qual: "ABC", offset: 5, length: 2, wantSeq: "", wantQual: ""},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {

			rec := fastq.Record{
				ID:      []byte("@r"),
				Seq:     []byte(test.seq),
				Comment: []byte("+"),
				Qual:    []byte(test.qual),
			}
			covers := rec.Covers(test.offset, test.length)
			if err := rec.Transform(test.offset, test.length, test.rc); err != nil {
				t.Fatal(err)
			}
			if string(rec.Seq) != test.wantSeq || string(rec.Qual) != test.wantQual {
				t.Errorf("expected %s/%s but got %s/%s", test.wantSeq, test.wantQual, rec.Seq, rec.Qual)
			}
			if want := len(test.wantSeq) == test.length; covers != want {
				t.Errorf("Covers: expected %v but got %v", want, covers)
			}
		})
	}
}

func TestTransformInvalidSymbol(t *testing.T) {

	rec := fastq.Record{Seq: []byte("AAXCC"), Qual: []byte("IIIII")}
	err := rec.Transform(1, 3, true)
	if !errors.Is(err, nucleotide.ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}

	rec = fastq.Record{Seq: []byte("AAXCC"), Qual: []byte("IIIII")}
	if err := rec.Transform(1, 3, false); err != nil {
		t.Errorf("forward transform should not check symbols, got %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {

	out := bytes.NewBuffer(nil)
	w := fastq.NewWriter(out)

	records, err := readAll(t, twoRecords)
	if err != nil {
		t.Fatal(err)
	}
	for i := range records {
		if err := w.Write(&records[i]); err != nil {
			t.Fatal(err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("records should stay buffered until Flush")
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	if want, got := twoRecords, out.String(); want != got {
		t.Errorf("expected\n%s\nbut got\n%s", want, got)
	}
	if w.Count() != 2 {
		t.Errorf("expected 2 records written, got %d", w.Count())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterError(t *testing.T) {

	w := fastq.NewWriter(failingWriter{})
	if err := w.Write(&fastq.Record{Seq: []byte("A"), Qual: []byte("I")}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err == nil {
		t.Error("expected an error from Flush")
	}
}
