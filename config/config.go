// Package config holds the histodriver run configuration, loaded from a
// TOML file, environment variables, and command-line flags via Viper.
package config

import (
	"github.com/hepworks/histodriver/errors"
)

// Config represents the histodriver configuration
type Config struct {
	// Analyzer is the command line for the external analysis executable.
	// Split shell-style, so wrappers work: "valgrind ./RunSimpleAnalyzer".
	Analyzer string `mapstructure:"analyzer"`

	// OutDir is the directory analyzer outputs are written under
	OutDir string `mapstructure:"outdir"`

	// Workers bounds the number of concurrently running analyzer processes
	Workers int `mapstructure:"npool"`

	// Samples is the ordered list of sample names to dispatch, one
	// analyzer invocation each
	Samples []string `mapstructure:"samples"`

	// Strict makes the run exit non-zero if any analyzer invocation failed
	Strict bool `mapstructure:"strict"`

	// Rate caps job launches per second; 0 means unlimited
	Rate float64 `mapstructure:"rate"`
}

// DefaultSamples is the stock sample list dispatched when none is
// configured: the backgrounds, data, and signal points of the stop search.
var DefaultSamples = []string{
	"TTbarNoHad",
	"Rare",
	"WJetsToLNu",
	"ZJetsToNuNu",
	"QCD",
	"ST",
	"Diboson",
	"Data_MET",
	"Signal_fastsim_T2tt",
	"Signal_fastsim_T1tttt",
}

// Validate checks the configuration for values that would make a run
// impossible. Called after flags are merged in.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.Newf("npool must be at least 1, got %d", c.Workers)
	}
	if c.Analyzer == "" {
		return errors.New("analyzer command must not be empty")
	}
	if len(c.Samples) == 0 {
		return errors.New("sample list must not be empty")
	}
	if c.Rate < 0 {
		return errors.Newf("rate must not be negative, got %g", c.Rate)
	}
	return nil
}
