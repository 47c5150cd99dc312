package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/jessevdk/go-flags"

	"github.com/feliixx/gobarcode/barcode"
)

// fileConfig is the content of the file given with --config, for example:
//
//	sample    = 20000
//	too_short = "skip"
//	progress  = 500000
//	summary   = "run.json"
//	verbose   = true
//
// Keys left out keep their command line default.
type fileConfig struct {
	Sample   *int    `toml:"sample"`
	TooShort *string `toml:"too_short"`
	Progress *int    `toml:"progress"`
	Summary  *string `toml:"summary"`
	Verbose  *bool   `toml:"verbose"`
}

// loadConfig reads a toml config file and copies its values to options,
// except for the parameters explicitly given on the command line
func loadConfig(path string, p *flags.Parser, options *GlobalOptions) error {

	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("fail to read config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}

	fromCommandLine := func(longName string) bool {
		opt := p.FindOptionByLongName(longName)
		return opt != nil && opt.IsSet() && !opt.IsSetDefault()
	}

	if cfg.Sample != nil && !fromCommandLine("sample") {
		options.SampleSize = *cfg.Sample
	}
	if cfg.TooShort != nil && !fromCommandLine("too-short") {
		policy, err := barcode.ParseTooShortPolicy(*cfg.TooShort)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		options.TooShort = policy
	}
	if cfg.Progress != nil && !fromCommandLine("progress") {
		options.ProgressEvery = *cfg.Progress
	}
	if cfg.Summary != nil && !fromCommandLine("summary") {
		options.Summary = *cfg.Summary
	}
	if cfg.Verbose != nil && !fromCommandLine("verbose") {
		options.Verbose = *cfg.Verbose
	}
	return nil
}
