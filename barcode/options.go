package barcode

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// TooShortPolicy tells what to do with a record whose sequence
// doesn't hold the whole barcode window
type TooShortPolicy string

const (
	// Clamp keeps the bases available in the window, so the barcode
	// is shorter than the whitelist barcodes
	Clamp TooShortPolicy = "clamp"
	// Skip drops the record: it is neither written nor counted
	Skip TooShortPolicy = "skip"
	// Abort stops the run with ErrRecordTooShort
	Abort TooShortPolicy = "abort"
)

// ParseTooShortPolicy returns the policy matching name. An empty
// name means Clamp.
func ParseTooShortPolicy(name string) (TooShortPolicy, error) {
	switch p := TooShortPolicy(name); p {
	case "":
		return Clamp, nil
	case Clamp, Skip, Abort:
		return p, nil
	}
	return "", fmt.Errorf("wrong value for --too-short parameter: %s", name)
}

const (
	// DefaultSampleSize is the number of records read to detect the transform
	DefaultSampleSize = 10000
	// DefaultProgressEvery is the number of records between two progress messages
	DefaultProgressEvery = 1000000
)

// Options struct to store command line args
type Options struct {
	SampleSize    int            `short:"n" long:"sample" value-name:"<n>" description:"Number of records read to detect the barcode position and orientation, 0 to read them all" default:"10000"`
	TooShort      TooShortPolicy `long:"too-short" value-name:"<policy>" choice:"clamp" choice:"skip" choice:"abort" description:"What to do with a read too short to hold the whole barcode:\n clamp: keep the available bases\n skip: drop the read\n abort: stop with an error\n" default:"clamp"`
	ProgressEvery int            `long:"progress" value-name:"<n>" description:"Log progress every <n> records in verbose mode, 0 to disable" default:"1000000"`

	// Logger receives progress and diagnostic messages. Nothing is
	// logged if nil.
	Logger logrus.FieldLogger `no-flag:"true"`
}

// DefaultOptions returns the options used when none are given
// on the command line
func DefaultOptions() Options {
	return Options{
		SampleSize:    DefaultSampleSize,
		TooShort:      Clamp,
		ProgressEvery: DefaultProgressEvery,
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
