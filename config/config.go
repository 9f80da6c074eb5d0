// Package config handles javelin.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "javelin.toml"

// Config represents a javelin.toml file.
type Config struct {
	Scan   Scan   `toml:"scan"`
	Log    Log    `toml:"log"`
	Report Report `toml:"report"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// Scan configures class file scanning.
type Scan struct {
	Workers int `toml:"workers"`

	// Strong interns class file UTF-8 constants in the strong tier.
	Strong bool `toml:"strong"`
}

// Log configures commonlog.
type Log struct {
	Verbosity *int   `toml:"verbosity"`
	File      string `toml:"file"`
}

// Report configures the scan report.
type Report struct {
	Format string `toml:"format"`
	Verify *bool  `toml:"verify"`
	Top    int    `toml:"top"`
}

// Report formats.
const (
	FormatText = "text"
	FormatCBOR = "cbor"
)

// Default returns the configuration used when no javelin.toml is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a javelin.toml file, then
// loads it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = 8
	}
	if c.Log.Verbosity == nil {
		verbosity := 1
		c.Log.Verbosity = &verbosity
	}
	if c.Report.Format == "" {
		c.Report.Format = FormatText
	}
	if c.Report.Verify == nil {
		verify := true
		c.Report.Verify = &verify
	}
	if c.Report.Top <= 0 {
		c.Report.Top = 10
	}
}

// Validate rejects settings the tools cannot honour.
func (c *Config) Validate() error {
	switch c.Report.Format {
	case FormatText, FormatCBOR:
	default:
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}
	if c.Log.Verbosity != nil && *c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity must not be negative")
	}
	return nil
}

// ShouldVerify reports whether the engine should be verified after a scan.
func (c *Config) ShouldVerify() bool {
	return c.Report.Verify == nil || *c.Report.Verify
}

// LogVerbosity returns the commonlog verbosity; 0 disables logging.
func (c *Config) LogVerbosity() int {
	if c.Log.Verbosity == nil {
		return 1
	}
	return *c.Log.Verbosity
}

// LogFile returns the log file path for commonlog.Configure, or nil for
// stderr.
func (c *Config) LogFile() *string {
	if c.Log.File == "" {
		return nil
	}
	return &c.Log.File
}
