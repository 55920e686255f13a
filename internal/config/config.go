package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"
)

// Config controls discovery and output naming. Every field can also be set
// from the command line.
type Config struct {
	// Base-name globs of coverage records to collect.
	Patterns []string `toml:"patterns"`

	// Base-name glob of Go coverprofiles to collect as well. Empty disables
	// Go profile input.
	GoProfilePattern string `toml:"go_profile_pattern"`

	// Directory under the output directory receiving verbatim input copies.
	CopyDir string `toml:"copy_dir"`

	SummaryFile string `toml:"summary_file"`

	LogLevel string `toml:"log_level"`
}

var DefaultConfig = Config{
	Patterns:    []string{"*.cov"},
	CopyDir:     "res_copy",
	SummaryFile: "summary.csv",
	LogLevel:    "warn",
}

// Default returns a copy of DefaultConfig.
func Default() Config {
	cfg := DefaultConfig
	cfg.Patterns = append([]string(nil), DefaultConfig.Patterns...)
	return cfg
}

// FromString decodes a TOML document on top of the defaults.
func FromString(input string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(input, &cfg)
	if err != nil {
		return Config{}, err
	}
	if err := checkUndecoded(meta); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromFile decodes the TOML file at path on top of the defaults.
func FromFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := checkUndecoded(meta); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func checkUndecoded(meta toml.MetaData) error {
	if keys := meta.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
	}
	return nil
}

func (c Config) Validate() error {
	if len(c.Patterns) == 0 {
		return fmt.Errorf("patterns: at least one pattern is required")
	}
	for _, p := range append(append([]string(nil), c.Patterns...), c.GoProfilePattern) {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}
	}
	for name, v := range map[string]string{"copy_dir": c.CopyDir, "summary_file": c.SummaryFile} {
		if v == "" || v != filepath.Base(v) || v == "." || v == ".." {
			return fmt.Errorf("%s: %q must be a plain file name", name, v)
		}
	}
	if c.CopyDir == c.SummaryFile {
		return fmt.Errorf("copy_dir and summary_file must differ")
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}
