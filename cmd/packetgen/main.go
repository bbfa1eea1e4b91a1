// Command packetgen generates Serialize/Deserialize methods for annotated
// packet types declared in Go source or YAML definition files.
//
// Usage:
//
//	packetgen [flags] [inputs...]
//
// Settings are read from packetgen.toml when present; flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/alexhholmes/wirepack/internal/analyzer"
	"github.com/alexhholmes/wirepack/internal/codegen"
	"github.com/alexhholmes/wirepack/internal/config"
	"github.com/alexhholmes/wirepack/internal/diag"
	"github.com/alexhholmes/wirepack/internal/logging"
	"github.com/alexhholmes/wirepack/internal/observability"
	"github.com/alexhholmes/wirepack/internal/parser"
)

// ErrDiagnostics is returned when inputs have schema defects and
// fail_on_diagnostics is set.
var ErrDiagnostics = errors.New("packetgen: schema diagnostics")

func main() {
	logging.ConfigureRuntime()
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		log.Error().Err(err).Msg("packetgen failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)

	files, err := cfg.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("packetgen: no inputs")
	}

	var (
		mu    sync.Mutex
		diags diag.List
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found, err := process(cfg, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			diags = append(diags, found...)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()

	if cfg.Metrics {
		if werr := observability.WriteText(stderr, prometheus.DefaultGatherer); werr != nil {
			log.Warn().Err(werr).Msg("dump metrics")
		}
	}
	if err != nil {
		return err
	}
	if len(diags) > 0 && cfg.FailOnDiagnostics {
		return fmt.Errorf("%w: %d in %d files", ErrDiagnostics, len(diags), len(files))
	}
	return nil
}

// loadConfig reads the config file, then applies the flags that were set.
func loadConfig(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("packetgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", config.DefaultFile, "path to the TOML config file")
		outDir     = fs.String("out", "", "output directory, defaults to each input's directory")
		suffix     = fs.String("suffix", "", "generated file suffix")
		pkg        = fs.String("package", "", "package clause of generated files")
		level      = fs.String("log-level", "", "log level")
		failDiag   = fs.Bool("fail-on-diagnostics", true, "exit non-zero when a schema has defects")
		workers    = fs.Int("workers", 0, "files processed concurrently")
		metrics    = fs.Bool("metrics", false, "dump Prometheus metrics to stderr on exit")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
		log.Debug().Str("path", *configPath).Msg("loaded config")
	} else if set["config"] {
		return config.Config{}, fmt.Errorf("load packetgen config: %w", err)
	}

	if fs.NArg() > 0 {
		cfg.Inputs = fs.Args()
	}
	if set["out"] {
		cfg.OutputDir = *outDir
	}
	if set["suffix"] {
		cfg.OutputSuffix = *suffix
	}
	if set["package"] {
		cfg.Package = *pkg
	}
	if set["log-level"] {
		cfg.LogLevel = *level
	}
	if set["fail-on-diagnostics"] {
		cfg.FailOnDiagnostics = *failDiag
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["metrics"] {
		cfg.Metrics = *metrics
	}
	return cfg, cfg.Validate()
}

// process generates the output of one input and returns its diagnostics.
// Inputs with diagnostics are not written when cfg.FailOnDiagnostics is set.
func process(cfg config.Config, path string) (diag.List, error) {
	yamlInput := config.IsYAML(path)

	var (
		file *parser.File
		err  error
	)
	if yamlInput {
		file, err = parser.LoadYAML(path)
	} else {
		file, err = parser.ParseFile(path)
	}
	if err != nil {
		return nil, err
	}

	descs, diags := analyzer.AnalyzeFile(file, analyzer.RegistryFor(file))
	observability.Default().Diagnostics(diags)
	for _, d := range diags {
		log.Warn().Str("code", d.Code.String()).Str("type", d.Type).Str("field", d.Field).Msg(d.Error())
	}
	if len(diags) > 0 && cfg.FailOnDiagnostics {
		return diags, nil
	}
	if len(descs) == 0 {
		log.Info().Str("input", path).Msg("no packet types")
		return diags, nil
	}

	pkg := cfg.Package
	if pkg == "" {
		pkg = file.Package
	}
	if pkg == "" {
		return diags, errors.New("no package name; set package in the config")
	}

	gen := codegen.NewGenerator(pkg, filepath.Base(path))
	if yamlInput {
		gen.Declare(file)
	}
	for _, d := range descs {
		gen.Add(d)
	}
	src, err := gen.Generate()
	if err != nil {
		return diags, err
	}

	out := cfg.OutputPath(path)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return diags, err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return diags, err
	}
	log.Info().Str("input", path).Str("output", out).Int("types", len(descs)).Msg("generated")
	return diags, nil
}
