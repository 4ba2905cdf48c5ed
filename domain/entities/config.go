package entities

// Runtime names a library primitive implementation.
const (
	RuntimeNative = "native"
	RuntimeWasm   = "wasm"
)

// Default API version implemented by this host. Modules declare the version
// they were built for through their info export.
const (
	APIVersionMajor = 1
	APIVersionMinor = 2
)

// Config represents host configuration settings.
// It is the document read from a configuration file and the environment.
type Config struct {
	// Dir is the module directory scanned at startup.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" jsonschema:"description=Directory scanned for module libraries"`

	// Libraries is a comma-separated list of libraries that must load.
	Libraries string `json:"libraries,omitempty" yaml:"libraries,omitempty" jsonschema:"description=Comma-separated list of explicit library paths"`

	// Runtime selects the library primitive ("native" or "wasm").
	Runtime string `json:"runtime" yaml:"runtime" validate:"oneof=native wasm" jsonschema:"enum=native,enum=wasm"`

	// Suffix overrides the library filename suffix. Empty selects the
	// platform default for the runtime.
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty" validate:"omitempty,startswith=."`

	// LogLevel is the logging verbosity level (e.g., "debug", "info", "warn", "error").
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"oneof=debug info warn error"`

	// LogFormat is the diagnostic output format ("host", "text" or "json").
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"oneof=host text json"`

	// Width is the numeric width in bytes the host was built for.
	Width int `json:"width" yaml:"width" validate:"oneof=4 8" jsonschema:"enum=4,enum=8"`

	// APIMajor and APIMinor are the API version offered to modules.
	APIMajor int `json:"api_major" yaml:"api_major" validate:"gte=0,lte=32767"`
	APIMinor int `json:"api_minor" yaml:"api_minor" validate:"gte=0,lte=255"`

	// MaxPathLength skips directory entries whose full path is longer.
	// Zero disables the check.
	MaxPathLength int `json:"max_path_length" yaml:"max_path_length" validate:"gte=0"`

	// Capacity bounds the number of module records. Zero is unbounded.
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty" validate:"gte=0"`

	// DirFromDefault records that no directory was configured and the
	// default was used.
	DirFromDefault bool `json:"-" yaml:"-"`
}

// DefaultConfig returns the default host configuration.
func DefaultConfig() Config {
	return Config{
		Runtime:       RuntimeNative,
		LogLevel:      "info",
		LogFormat:     "host",
		Width:         8,
		APIMajor:      APIVersionMajor,
		APIMinor:      APIVersionMinor,
		MaxPathLength: 1024,
	}
}

// Version returns the host's API version as an Info value.
func (c Config) Version() Info {
	return Info{Width: c.Width, Major: c.APIMajor, Minor: c.APIMinor}
}
