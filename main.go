package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/feliixx/gobarcode/barcode"
	"github.com/feliixx/gobarcode/stream"
)

const (
	version  = "0.1.0"
	toolName = "gobarcode"
)

// GlobalOptions struct to store command line args
type GlobalOptions struct {
	Args            Arguments `positional-args:"yes"`
	barcode.Options `group:"optional"`
	General         `group:"general"`
}

// Arguments struct to store the positional args
type Arguments struct {
	Input        string `positional-arg-name:"input_file" description:"fastq file of barcode reads"`
	Whitelist    string `positional-arg-name:"barcode_whitelist" description:"barcode whitelist, one barcode per line"`
	OutputFastq  string `positional-arg-name:"output_fastq" description:"fastq file of barcodes"`
	OutputCounts string `positional-arg-name:"output_counts" description:"file of barcode counts"`
}

// General struct to store general command line args
type General struct {
	Verbose bool   `short:"v" long:"verbose" description:"Show more details and progress updates"`
	Config  string `short:"c" long:"config" value-name:"<filename>" description:"TOML file with default values for optional parameters"`
	Summary string `short:"s" long:"summary" value-name:"<filename>" description:"Write a JSON summary of the run to <filename>"`
	Help    bool   `short:"h" long:"help" description:"Show this help message"`
	Version bool   `long:"version" description:"Print the tool version and exit"`
}

const description = `Transform and count cell barcodes.

The position and orientation of the barcode in the reads are detected from the
first records of input_file. Each read is then replaced by its barcode, written
to output_fastq, and the number of reads per barcode is written to output_counts.`

// runSummary is written with --summary
type runSummary struct {
	Version          string            `json:"version"`
	Input            string            `json:"input"`
	Whitelist        string            `json:"whitelist"`
	WhitelistSize    int               `json:"whitelist_size"`
	Detection        barcode.Detection `json:"detection"`
	Stats            *barcode.Stats    `json:"stats"`
	DistinctBarcodes int               `json:"distinct_barcodes"`
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func checkArgs(args Arguments) error {

	required := []struct{ value, name string }{
		{args.Input, "input_file"},
		{args.Whitelist, "barcode_whitelist"},
		{args.OutputFastq, "output_fastq"},
		{args.OutputCounts, "output_counts"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required argument %s, try %s --help for details", r.name, toolName)
		}
	}
	return nil
}

func run(options GlobalOptions, log logrus.FieldLogger) error {

	if err := checkArgs(options.Args); err != nil {
		return err
	}
	options.Logger = log

	log.Info("Determining transform")
	log.Infof("Reading whitelist from %s...", options.Args.Whitelist)

	wl, err := barcode.ReadWhitelistFile(options.Args.Whitelist)
	if err != nil {
		return err
	}
	log.Infof("Whitelist size: %d", wl.Size())
	log.Infof("Inferred barcode length: %d", wl.Len())

	detection, in, err := detect(options, wl)
	if err != nil {
		return err
	}
	defer in.Close()

	log.WithFields(logrus.Fields{
		"offset": detection.Offset,
		"rc":     detection.ReverseComplement,
	}).Infof("Best offset: %d, best rc: %v, best match count: %d out of %d records (%.2f%%)",
		detection.Offset, detection.ReverseComplement, detection.Matches, detection.Sampled, 100*detection.MatchRate())

	if detection.Matches == 0 {
		log.Warn("no whitelist barcode found in the sampled records, using offset 0 in forward orientation")
	}

	log.Info("Transforming records...")

	counts, stats, err := transformAndCount(options, wl, detection.Transform, in)
	if err != nil {
		return err
	}

	log.Infof("Transformed %d records, wrote %d.", stats.Records, stats.Emitted)
	if stats.TooShort > 0 {
		log.WithField("policy", options.TooShort).Warnf("%d records were too short to hold the whole barcode", stats.TooShort)
	}
	log.Infof("%d distinct barcodes, %d records with a whitelist barcode", len(counts), stats.WhitelistMatches)

	if options.Summary != "" {
		s := runSummary{
			Version:          version,
			Input:            options.Args.Input,
			Whitelist:        options.Args.Whitelist,
			WhitelistSize:    wl.Size(),
			Detection:        detection,
			Stats:            stats,
			DistinctBarcodes: len(counts),
		}
		if err := writeSummary(options.Summary, s); err != nil {
			return err
		}
	}

	log.Info("Done.")
	return nil
}

// replayReader reads the bytes consumed by the detection pass,
// then the rest of the input
type replayReader struct {
	io.Reader
	io.Closer
}

// detect reads the first records of the input and returns the reader
// for the main pass. A file is simply opened again. Stdin can be read
// only once, so the bytes consumed by the detection are kept and read
// again before the rest of the stream.
func detect(options GlobalOptions, wl *barcode.Whitelist) (barcode.Detection, io.ReadCloser, error) {

	options.Logger.Infof("Reading the first %d records from %s...", options.SampleSize, options.Args.Input)

	in, err := stream.Open(options.Args.Input)
	if err != nil {
		return barcode.Detection{}, nil, err
	}

	if options.Args.Input != "-" {
		detection, err := barcode.Detect(in, wl, options.SampleSize)
		in.Close()
		if err != nil {
			return detection, nil, err
		}
		in, err = stream.Open(options.Args.Input)
		return detection, in, err
	}

	consumed := bytes.NewBuffer(nil)
	detection, err := barcode.Detect(io.TeeReader(in, consumed), wl, options.SampleSize)
	if err != nil {
		in.Close()
		return detection, nil, err
	}
	return detection, replayReader{Reader: io.MultiReader(consumed, in), Closer: in}, nil
}

func transformAndCount(options GlobalOptions, wl *barcode.Whitelist, t barcode.Transform, in io.Reader) (barcode.Counts, *barcode.Stats, error) {

	out, err := stream.Create(options.Args.OutputFastq)
	if err != nil {
		return nil, nil, err
	}

	counts, stats, err := barcode.TransformAndCount(in, out, t, wl, options.Options)
	if err != nil {
		out.Close()
		return nil, nil, err
	}
	if err := out.Close(); err != nil {
		return nil, nil, fmt.Errorf("fail to close %s: %w", options.Args.OutputFastq, err)
	}

	// counts are a plain tab separated table, whatever the file name
	countsOut, err := stream.CreatePlain(options.Args.OutputCounts)
	if err != nil {
		return nil, nil, err
	}
	if _, err := counts.WriteTo(countsOut); err != nil {
		countsOut.Close()
		return nil, nil, fmt.Errorf("fail to write counts to %s: %w", options.Args.OutputCounts, err)
	}
	if err := countsOut.Close(); err != nil {
		return nil, nil, fmt.Errorf("fail to close %s: %w", options.Args.OutputCounts, err)
	}
	return counts, stats, nil
}

func writeSummary(path string, s runSummary) error {

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("fail to serialize run summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("fail to write run summary: %w", err)
	}
	return nil
}

func newParser(options *GlobalOptions) *flags.Parser {
	p := flags.NewParser(options, flags.Default&^flags.HelpFlag&^flags.PrintErrors)
	p.Name = toolName
	p.LongDescription = description
	return p
}

// parseArgs parses the command line, then fills the optional parameters
// not given on the command line from the config file, if any
func parseArgs(args []string) (GlobalOptions, *flags.Parser, error) {

	var options GlobalOptions
	p := newParser(&options)

	rest, err := p.ParseArgs(args)
	if err != nil {
		return options, p, err
	}
	if len(rest) > 0 {
		return options, p, fmt.Errorf("too many arguments: %v", rest)
	}
	if options.Config != "" {
		if err := loadConfig(options.Config, p, &options); err != nil {
			return options, p, err
		}
	}
	return options, p, nil
}

func main() {

	options, p, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "wrong arguments: %v, try %s --help for more informations\n", err, toolName)
		os.Exit(1)
	}
	if options.Help {
		fmt.Printf("%s version %s\n\n", toolName, version)
		p.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	if options.Version {
		fmt.Printf("%s version %s\n", toolName, version)
		os.Exit(0)
	}

	log := newLogger(options.Verbose)
	if err := run(options, log); err != nil {
		log.WithError(err).Error("fail to transform and count barcodes")
		os.Exit(1)
	}
}
