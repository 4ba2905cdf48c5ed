// Package config resolves host configuration from defaults, a
// configuration document, explicit overrides and the environment.
package config

import (
	"fmt"

	"github.com/reglet-dev/reglet-modhost/application/validation"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
	"github.com/reglet-dev/reglet-modhost/infrastructure/parser"
)

// Environment variables naming the module directory.
const (
	// EnvModuleDir is read by hosts built for the standard numeric width.
	EnvModuleDir = "REGLET_MODULE_DIR"
	// EnvModuleDirWide is read by hosts built for the wide numeric width.
	EnvModuleDirWide = "REGLET_MODULE_DIR64"
	// EnvLibraries holds a comma-separated list of libraries to load.
	EnvLibraries = "REGLET_MODULE_LIBS"
)

// DefaultDir is used when no module directory is configured.
const DefaultDir = "."

// standardWidth is the numeric width read from EnvModuleDir.
const standardWidth = 4

// DirectoryVariable returns the environment variable an operator should
// set for a host of the given width.
func DirectoryVariable(width int) string {
	if width > standardWidth {
		return EnvModuleDirWide
	}
	return EnvModuleDir
}

// resolveConfig holds configuration for Resolve.
type resolveConfig struct {
	parser    ports.ConfigParser
	validator ports.ConfigValidator
	document  []byte
	overrides []func(*entities.Config)
}

func defaultResolveConfig() resolveConfig {
	return resolveConfig{
		parser:    parser.NewYamlConfigParser(true),
		validator: validation.NewConfigValidator(),
	}
}

// ResolveOption configures Resolve.
type ResolveOption func(*resolveConfig)

// WithDocument supplies a configuration document (YAML by default).
func WithDocument(data []byte) ResolveOption {
	return func(c *resolveConfig) {
		c.document = data
	}
}

// WithParser sets a custom configuration parser.
func WithParser(p ports.ConfigParser) ResolveOption {
	return func(c *resolveConfig) {
		c.parser = p
	}
}

// WithValidator sets a custom configuration validator.
func WithValidator(v ports.ConfigValidator) ResolveOption {
	return func(c *resolveConfig) {
		c.validator = v
	}
}

// WithOverride applies fn after the document is read. Overrides run in
// the order given.
func WithOverride(fn func(*entities.Config)) ResolveOption {
	return func(c *resolveConfig) {
		if fn != nil {
			c.overrides = append(c.overrides, fn)
		}
	}
}

// Resolve builds the host configuration.
//
// Precedence, lowest first: defaults, the document, overrides. The module
// directory and library list fall back to the environment when neither the
// document nor an override set them. A directory that is still unset after
// that becomes DefaultDir. DirFromDefault is recorded in that case and when
// a wide host had to fall back to EnvModuleDir.
func Resolve(env ports.Environment, opts ...ResolveOption) (*entities.Config, error) {
	rc := defaultResolveConfig()
	for _, opt := range opts {
		opt(&rc)
	}

	cfg := entities.DefaultConfig()
	if len(rc.document) > 0 {
		parsed, err := rc.parser.Parse(rc.document, cfg)
		if err != nil {
			return nil, err
		}
		cfg = *parsed
	}

	for _, fn := range rc.overrides {
		fn(&cfg)
	}

	if cfg.Dir == "" && env != nil {
		dir, own := LookupDirectory(env, cfg.Width)
		cfg.Dir = dir
		cfg.DirFromDefault = dir != "" && !own
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
		cfg.DirFromDefault = true
	}

	if cfg.Libraries == "" && env != nil {
		if v, ok := env.Lookup(EnvLibraries); ok {
			cfg.Libraries = v
		}
	}

	if err := rc.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LookupDirectory reads the module directory for a host of the given width.
// Wide hosts fall back to the standard variable; own is false when that
// fallback was taken. It returns "" when nothing is set.
func LookupDirectory(env ports.Environment, width int) (dir string, own bool) {
	if width > standardWidth {
		if v, ok := env.Lookup(EnvModuleDirWide); ok && v != "" {
			return v, true
		}
		if v, ok := env.Lookup(EnvModuleDir); ok && v != "" {
			return v, false
		}
		return "", false
	}
	if v, ok := env.Lookup(EnvModuleDir); ok && v != "" {
		return v, true
	}
	return "", false
}
