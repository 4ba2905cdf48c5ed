package environment_test

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/infrastructure/environment"
	"github.com/stretchr/testify/assert"
)

func TestOS_Lookup(t *testing.T) {
	t.Setenv("REGLET_MODHOST_TEST_VAR", "/opt/mods")

	v, ok := environment.NewOS().Lookup("REGLET_MODHOST_TEST_VAR")
	assert.True(t, ok)
	assert.Equal(t, "/opt/mods", v)

	_, ok = environment.NewOS().Lookup("REGLET_MODHOST_TEST_UNSET")
	assert.False(t, ok)
}

func TestMap_Lookup(t *testing.T) {
	env := environment.Map{"A": "1", "EMPTY": ""}

	v, ok := env.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = env.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = env.Lookup("B")
	assert.False(t, ok)
}
