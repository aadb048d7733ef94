// Package config implements the configuration for the dingdemo tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/KAIST-CryptLab/dingrec/core/ding"
)

const (
	defaultModulus  = 12289
	defaultLogLevel = "NOTICE"
	defaultLogN     = 10
	defaultSigma    = 3.2
	defaultTrials   = 100
)

var defaultLogging = Logging{
	Disable: false,
	File:    "",
	Level:   defaultLogLevel,
}

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stdout will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (lCfg *Logging) validate() error {
	lvl := strings.ToUpper(lCfg.Level)
	switch lvl {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
	case "":
		lvl = defaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	lCfg.Level = lvl
	return nil
}

// Analysis is the failure-rate analysis configuration.
type Analysis struct {
	// LogN is the log2 of the number of coefficients reconciled per trial.
	LogN int

	// Sigma is the standard deviation of the error e, the parties differ by 2e.
	Sigma float64

	// Trials is the number of reconciliations to run.
	Trials int

	// Seed makes the sampling deterministic when set.
	Seed string
}

func (aCfg *Analysis) fixup() {
	if aCfg.LogN == 0 {
		aCfg.LogN = defaultLogN
	}
	if aCfg.Sigma == 0 {
		aCfg.Sigma = defaultSigma
	}
	if aCfg.Trials == 0 {
		aCfg.Trials = defaultTrials
	}
}

func (aCfg *Analysis) validate() error {
	if aCfg.LogN < 4 || aCfg.LogN > 16 {
		return fmt.Errorf("config: Analysis: LogN %d is out of range", aCfg.LogN)
	}
	if aCfg.Sigma < 0 {
		return fmt.Errorf("config: Analysis: Sigma %v is negative", aCfg.Sigma)
	}
	if aCfg.Trials < 0 {
		return fmt.Errorf("config: Analysis: Trials %d is negative", aCfg.Trials)
	}
	return nil
}

// Config is the top level dingdemo configuration.
type Config struct {
	// Modulus is the reconciliation modulus q, an odd prime.
	Modulus uint64

	Logging  *Logging
	Analysis *Analysis

	params ding.Parameters
}

// Parameters returns the validated modulus context.
func (c *Config) Parameters() ding.Parameters {
	return c.params
}

// FixupAndValidate applies defaults to config entries and validates the
// configuration sections.
func (c *Config) FixupAndValidate() error {
	if c.Modulus == 0 {
		c.Modulus = defaultModulus
	}
	if c.Logging == nil {
		l := defaultLogging
		c.Logging = &l
	}
	if c.Analysis == nil {
		c.Analysis = new(Analysis)
	}
	c.Analysis.fixup()

	if err := c.Logging.validate(); err != nil {
		return err
	}
	if err := c.Analysis.validate(); err != nil {
		return err
	}

	params, err := ding.NewParameters(c.Modulus)
	if err != nil {
		return fmt.Errorf("config: Modulus: %w", err)
	}
	c.params = params

	return nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	if err := cfg.FixupAndValidate(); err != nil {
		panic(err)
	}
	return cfg
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: no configuration data")
	}

	cfg := new(Config)
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses, and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
