package main

import (
	"context"
	stdErrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reglet-dev/reglet-modhost/application/config"
	"github.com/reglet-dev/reglet-modhost/application/schema"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
	"github.com/reglet-dev/reglet-modhost/host"
	"github.com/reglet-dev/reglet-modhost/infrastructure/native"
	"github.com/reglet-dev/reglet-modhost/infrastructure/wazero"
	"github.com/reglet-dev/reglet-modhost/log"
)

// options are the parsed command-line flags.
type options struct {
	set         map[string]bool
	configPath  string
	dir         string
	libs        string
	runtime     string
	logLevel    string
	logFormat   string
	width       int
	printSchema bool
	quiet       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("modhost", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML host configuration")
	fs.StringVar(&o.dir, "dir", "", "Module directory (overrides "+config.EnvModuleDir+")")
	fs.StringVar(&o.libs, "libs", "", "Comma-separated libraries to load (overrides "+config.EnvLibraries+")")
	fs.StringVar(&o.runtime, "runtime", "", "Library runtime: native or wasm")
	fs.IntVar(&o.width, "width", 0, "Numeric width in bytes offered to modules: 4 or 8")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "Log format: host, text, json")
	fs.BoolVar(&o.printSchema, "print-schema", false, "Print the configuration JSON Schema and exit")
	fs.BoolVar(&o.quiet, "q", false, "Do not list loaded modules")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return &o, nil
}

// override applies the flags given on the command line.
func (o *options) override(cfg *entities.Config) {
	if o.set["dir"] {
		cfg.Dir = o.dir
	}
	if o.set["libs"] {
		cfg.Libraries = o.libs
	}
	if o.set["runtime"] {
		cfg.Runtime = o.runtime
	}
	if o.set["width"] {
		cfg.Width = o.width
	}
	if o.set["log-level"] {
		cfg.LogLevel = o.logLevel
	}
	if o.set["log-format"] {
		cfg.LogFormat = o.logFormat
	}
}

func run(ctx context.Context, args []string, env ports.Environment, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if stdErrors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.printSchema {
		data, err := schema.ConfigSchema()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	resolveOpts := []config.ResolveOption{config.WithOverride(opts.override)}
	if opts.configPath != "" {
		data, err := os.ReadFile(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: read config: %v\n", err)
			return 1
		}
		resolveOpts = append(resolveOpts, config.WithDocument(data))
	}

	cfg, err := config.Resolve(env, resolveOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.NewLogger(stderr, level, cfg.LogFormat)

	lib, closeLib, err := openLibrary(ctx, cfg.Runtime, logger)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	defer closeLib()

	failed := false
	rep := reporter{logger: logger, structured: cfg.LogFormat == log.FormatJSON}
	h := host.New(lib,
		host.WithConfig(*cfg),
		host.WithLogger(logger),
		host.WithTerminator(func(msg string, err error) {
			logger.Error(fmt.Sprintf("%s: %v", msg, err))
			failed = true
		}),
	)
	return execute(h, rep, stdout, opts.quiet, &failed)
}

// reporter logs host failures; in JSON format each record also carries the
// structured error detail.
type reporter struct {
	logger     *slog.Logger
	structured bool
}

func (r reporter) report(level slog.Level, err error) {
	var args []any
	if r.structured {
		if detail := errors.ToErrorDetail(err); detail != nil {
			// By value: the JSON handler prints error values as strings.
			args = append(args, "detail", *detail)
		}
	}
	r.logger.Log(context.Background(), level, err.Error(), args...)
}

// execute drives the host through the load, init and teardown passes.
func execute(h *host.Host, rep reporter, stdout io.Writer, quiet bool, failed *bool) int {
	h.WarnDirectoryUnset()

	if err := h.LoadModules(); err != nil {
		var de *errors.DirectoryError
		switch {
		case stdErrors.As(err, &de):
			// Already reported by the host.
			_ = h.DestroyModules()
			return 1
		case errors.ClassOf(err) == errors.ClassMemory:
			rep.report(slog.LevelError, err)
			_ = h.DestroyModules()
			return 1
		default:
			rep.report(slog.LevelWarn, err)
		}
	}

	if err := h.LoadPending(); err != nil || *failed {
		_ = h.DestroyModules()
		return 1
	}

	code := 0
	if err := h.InitModules(); err != nil {
		rep.report(slog.LevelError, err)
		code = 1
	}

	if !quiet {
		if err := writeModules(stdout, h.Modules()); err != nil {
			rep.logger.Warn("could not list modules", "error", err)
		}
	}

	if err := h.DestroyModules(); err != nil {
		rep.report(slog.LevelError, err)
		code = 1
	}
	return code
}

// openLibrary returns the library primitive for runtime and a function
// releasing it.
func openLibrary(ctx context.Context, runtime string, logger *slog.Logger) (ports.Library, func(), error) {
	switch runtime {
	case entities.RuntimeWasm:
		lib, err := wazero.NewLibrary(ctx, wazero.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return lib, func() { _ = lib.CloseRuntime(context.Background()) }, nil
	case entities.RuntimeNative, "":
		return native.NewLibrary(native.WithLogger(logger)), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown runtime %q", runtime)
	}
}
