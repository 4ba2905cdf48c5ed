package config_test

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/application/config"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := config.Resolve(mapEnv{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDir, cfg.Dir)
	assert.True(t, cfg.DirFromDefault)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, entities.RuntimeNative, cfg.Runtime)
	assert.Equal(t, entities.APIVersionMajor, cfg.APIMajor)
	assert.Equal(t, 1024, cfg.MaxPathLength)
}

func TestResolve_DirectoryByWidth(t *testing.T) {
	tests := []struct {
		name  string
		env   mapEnv
		width int
		want  string
		dflt  bool
	}{
		{"wide prefers wide variable", mapEnv{config.EnvModuleDirWide: "/w", config.EnvModuleDir: "/s"}, 8, "/w", false},
		{"wide falls back to standard", mapEnv{config.EnvModuleDir: "/s"}, 8, "/s", true},
		{"empty wide value falls back", mapEnv{config.EnvModuleDirWide: "", config.EnvModuleDir: "/s"}, 8, "/s", true},
		{"standard ignores wide variable", mapEnv{config.EnvModuleDirWide: "/w"}, 4, ".", true},
		{"standard reads standard variable", mapEnv{config.EnvModuleDir: "/s"}, 4, "/s", false},
		{"nothing set", mapEnv{}, 4, ".", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width := tt.width
			cfg, err := config.Resolve(tt.env, config.WithOverride(func(c *entities.Config) { c.Width = width }))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Dir)
			assert.Equal(t, tt.dflt, cfg.DirFromDefault)
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	doc := []byte("dir: /from/file\nlibraries: x.so\nlog_level: warn\n")
	env := mapEnv{config.EnvModuleDirWide: "/from/env", config.EnvLibraries: "env.so"}

	cfg, err := config.Resolve(env, config.WithDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.Dir)
	assert.Equal(t, "x.so", cfg.Libraries)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.DirFromDefault)

	cfg, err = config.Resolve(env,
		config.WithDocument(doc),
		config.WithOverride(func(c *entities.Config) { c.Dir = "/from/flag" }),
	)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Dir)

	cfg, err = config.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Dir)
	assert.Equal(t, "env.so", cfg.Libraries)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := config.Resolve(mapEnv{}, config.WithOverride(func(c *entities.Config) { c.Width = 3 }))
	var ce *errors.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Width", ce.Field)

	_, err = config.Resolve(mapEnv{}, config.WithDocument([]byte("nonsense: true\n")))
	assert.Error(t, err)
}

func TestResolve_NilEnvironment(t *testing.T) {
	cfg, err := config.Resolve(nil)
	require.NoError(t, err)
	assert.True(t, cfg.DirFromDefault)
}

func TestDirectoryVariable(t *testing.T) {
	assert.Equal(t, config.EnvModuleDir, config.DirectoryVariable(4))
	assert.Equal(t, config.EnvModuleDirWide, config.DirectoryVariable(8))
}
