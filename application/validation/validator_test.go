package validation_test

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/application/validation"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidator_Defaults(t *testing.T) {
	cfg := entities.DefaultConfig()
	assert.NoError(t, validation.NewConfigValidator().Validate(&cfg))
}

func TestConfigValidator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entities.Config)
		field  string
	}{
		{"width", func(c *entities.Config) { c.Width = 2 }, "Width"},
		{"runtime", func(c *entities.Config) { c.Runtime = "jvm" }, "Runtime"},
		{"suffix", func(c *entities.Config) { c.Suffix = "so" }, "Suffix"},
		{"minor", func(c *entities.Config) { c.APIMinor = 256 }, "APIMinor"},
		{"major", func(c *entities.Config) { c.APIMajor = -1 }, "APIMajor"},
		{"path length", func(c *entities.Config) { c.MaxPathLength = -5 }, "MaxPathLength"},
		{"capacity", func(c *entities.Config) { c.Capacity = -1 }, "Capacity"},
		{"log level", func(c *entities.Config) { c.LogLevel = "trace" }, "LogLevel"},
		{"log format", func(c *entities.Config) { c.LogFormat = "xml" }, "LogFormat"},
	}

	v := validation.NewConfigValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := entities.DefaultConfig()
			tt.mutate(&cfg)

			err := v.Validate(&cfg)
			var ce *errors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfigValidator_EmptySuffixAllowed(t *testing.T) {
	cfg := entities.DefaultConfig()
	cfg.Suffix = ""
	assert.NoError(t, validation.NewConfigValidator().Validate(&cfg))
}

func TestConfigValidator_Nil(t *testing.T) {
	err := validation.NewConfigValidator().Validate(nil)
	var ce *errors.ConfigError
	assert.ErrorAs(t, err, &ce)
}
