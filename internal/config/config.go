// Package config loads humdrum.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up from the working directory upward.
const FileName = "humdrum.toml"

type Config struct {
	Analysis Analysis `toml:"analysis"`
	Output   Output   `toml:"output"`
	Check    Check    `toml:"check"`
	Log      Log      `toml:"log"`

	// Path пустой, если конфиг не найден и используются значения по умолчанию.
	Path string `toml:"-"`
}

type Analysis struct {
	NullMarker     string `toml:"null_marker"`
	Exclusive      string `toml:"exclusive"`
	NormalizeNFC   bool   `toml:"normalize_nfc"`
	NonNull        bool   `toml:"non_null"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type Output struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

type Check struct {
	Jobs       int      `toml:"jobs"`
	Catalog    string   `toml:"catalog"`
	Extensions []string `toml:"extensions"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default is the configuration used without a humdrum.toml.
func Default() Config {
	return Config{
		Analysis: Analysis{
			NullMarker:     ".",
			Exclusive:      "**blank",
			NonNull:        true,
			MaxDiagnostics: 100,
		},
		Output: Output{Format: "pretty", Color: "auto", PathMode: "auto"},
		Check: Check{
			Jobs:       runtime.GOMAXPROCS(0),
			Extensions: []string{".krn", ".hmd"},
		},
		Log: Log{Level: "warn", Format: "text"},
	}
}

// Find walks up from startDir looking for humdrum.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover loads the nearest humdrum.toml, or Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	// пустой список расширений в файле означает "по умолчанию"
	if meta.IsDefined("check", "extensions") && len(cfg.Check.Extensions) == 0 {
		cfg.Check.Extensions = Default().Check.Extensions
	}
	cfg.Check.Jobs = Jobs(cfg.Check.Jobs)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	a := c.Analysis
	if a.NullMarker == "" || strings.ContainsAny(a.NullMarker, "\t\n") {
		errs = append(errs, fmt.Errorf("[analysis].null_marker must be a non-empty single field, got %q", a.NullMarker))
	}
	if !strings.HasPrefix(a.Exclusive, "**") || len(a.Exclusive) == 2 || strings.ContainsAny(a.Exclusive, "\t\n") {
		errs = append(errs, fmt.Errorf("[analysis].exclusive must look like **name, got %q", a.Exclusive))
	}
	if a.MaxDiagnostics < 0 || a.MaxDiagnostics > 65535 {
		errs = append(errs, fmt.Errorf("[analysis].max_diagnostics out of range: %d", a.MaxDiagnostics))
	}
	if !oneOf(c.Output.Format, "pretty", "json", "short") {
		errs = append(errs, fmt.Errorf("[output].format must be pretty|json|short, got %q", c.Output.Format))
	}
	if !oneOf(c.Output.Color, "auto", "on", "off") {
		errs = append(errs, fmt.Errorf("[output].color must be auto|on|off, got %q", c.Output.Color))
	}
	if !oneOf(c.Output.PathMode, "auto", "absolute", "relative", "basename") {
		errs = append(errs, fmt.Errorf("[output].path_mode must be auto|absolute|relative|basename, got %q", c.Output.PathMode))
	}
	if c.Check.Jobs < 1 {
		errs = append(errs, fmt.Errorf("[check].jobs must be positive, got %d", c.Check.Jobs))
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("[check].extensions entry %q must start with a dot", ext))
		}
	}
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		errs = append(errs, fmt.Errorf("[log].level must be debug|info|warn|error, got %q", c.Log.Level))
	}
	if !oneOf(c.Log.Format, "text", "json") {
		errs = append(errs, fmt.Errorf("[log].format must be text|json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Jobs resolves a requested worker count: 0 means one per GOMAXPROCS.
func Jobs(n int) int {
	if n == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
