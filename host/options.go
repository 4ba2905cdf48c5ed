package host

import (
	"log/slog"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// Terminator ends the process after a must-succeed library failed to load.
// msg is the operator-facing description, err the load error.
type Terminator func(msg string, err error)

// hostConfig holds configuration for the Host.
type hostConfig struct {
	logger     *slog.Logger
	generators ports.GeneratorRegistry
	operations ports.OperationTable
	terminate  Terminator
	settings   entities.Config
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		settings: entities.DefaultConfig(),
	}
}

// Option configures a Host.
type Option func(*hostConfig)

// WithLogger sets the diagnostic channel. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *hostConfig) {
		c.logger = l
	}
}

// WithGenerators sets the registry extension libraries register generator
// routines with. Default is an in-memory catalog.
func WithGenerators(g ports.GeneratorRegistry) Option {
	return func(c *hostConfig) {
		c.generators = g
	}
}

// WithOperations sets the table extension libraries append operations to.
// Default is an in-memory catalog.
func WithOperations(o ports.OperationTable) Option {
	return func(c *hostConfig) {
		c.operations = o
	}
}

// WithTerminator replaces the process exit performed when an explicitly
// listed library fails fatally. If the terminator returns, LoadExternals
// returns the failure instead.
func WithTerminator(t Terminator) Option {
	return func(c *hostConfig) {
		c.terminate = t
	}
}

// WithConfig applies a resolved host configuration.
func WithConfig(cfg entities.Config) Option {
	return func(c *hostConfig) {
		c.settings = cfg
	}
}

// WithDirectory sets the module directory scanned by LoadModules.
func WithDirectory(dir string) Option {
	return func(c *hostConfig) {
		c.settings.Dir = dir
		c.settings.DirFromDefault = false
	}
}

// WithVersion sets the numeric width and API version offered to modules.
func WithVersion(v entities.Info) Option {
	return func(c *hostConfig) {
		c.settings.Width = v.Width
		c.settings.APIMajor = v.Major
		c.settings.APIMinor = v.Minor
	}
}

// WithSuffix overrides the library suffix matched during directory scans.
func WithSuffix(suffix string) Option {
	return func(c *hostConfig) {
		c.settings.Suffix = suffix
	}
}

// WithMaxPathLength skips scanned paths longer than n. Zero disables the limit.
func WithMaxPathLength(n int) Option {
	return func(c *hostConfig) {
		c.settings.MaxPathLength = n
	}
}

// WithCapacity bounds the number of loaded modules. Zero is unbounded.
func WithCapacity(n int) Option {
	return func(c *hostConfig) {
		c.settings.Capacity = n
	}
}

// WithLibraries stores a comma-separated list loaded by LoadPending.
func WithLibraries(list string) Option {
	return func(c *hostConfig) {
		c.settings.Libraries = list
	}
}
