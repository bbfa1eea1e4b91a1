// Package config loads packetgen.toml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alexhholmes/wirepack/internal/logging"
)

const DefaultFile = "packetgen.toml"

// Config drives one packetgen run.
type Config struct {
	// Inputs are Go source or YAML files; glob patterns are expanded.
	Inputs []string
	// OutputDir receives generated files; empty writes next to each input.
	OutputDir    string
	OutputSuffix string
	// Package overrides the package clause of generated files.
	Package           string
	LogLevel          string
	FailOnDiagnostics bool
	Workers           int
	// Metrics dumps the Prometheus text exposition to stderr on exit.
	Metrics bool
}

type fileConfig struct {
	Inputs            []string `toml:"inputs"`
	OutputDir         string   `toml:"output_dir"`
	OutputSuffix      string   `toml:"output_suffix"`
	Package           string   `toml:"package"`
	LogLevel          string   `toml:"log_level"`
	FailOnDiagnostics bool     `toml:"fail_on_diagnostics"`
	Workers           int      `toml:"workers"`
	Metrics           bool     `toml:"metrics"`
}

func Default() Config {
	return Config{
		OutputSuffix:      "_packet.go",
		LogLevel:          "info",
		FailOnDiagnostics: true,
		Workers:           runtime.GOMAXPROCS(0),
	}
}

// Load overlays the keys defined in path on Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load packetgen config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load packetgen config: unknown keys: %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("inputs") {
		cfg.Inputs = normalizeInputs(raw.Inputs)
	}
	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("output_suffix") {
		cfg.OutputSuffix = strings.TrimSpace(raw.OutputSuffix)
	}
	if meta.IsDefined("package") {
		cfg.Package = strings.TrimSpace(raw.Package)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("fail_on_diagnostics") {
		cfg.FailOnDiagnostics = raw.FailOnDiagnostics
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if !strings.HasSuffix(c.OutputSuffix, ".go") {
		errs = append(errs, fmt.Errorf("output_suffix must end in .go, got %q", c.OutputSuffix))
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	for _, in := range c.Inputs {
		if _, err := filepath.Match(in, ""); err != nil {
			errs = append(errs, fmt.Errorf("bad input pattern %q: %w", in, err))
		}
	}
	return errors.Join(errs...)
}

// Files expands the input patterns into a sorted, de-duplicated list. A
// pattern without matches is an error so typos do not pass silently.
func (c Config) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.Inputs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input %q matches no files", pattern)
		}
		for _, m := range matches {
			if seen[m] || strings.HasSuffix(m, c.OutputSuffix) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath names the generated file for input.
func (c Config) OutputPath(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + c.OutputSuffix
	dir := c.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

// IsYAML reports whether input is a YAML definition.
func IsYAML(input string) bool {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func normalizeInputs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
