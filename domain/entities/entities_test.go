package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackParseInfo(t *testing.T) {
	tests := []struct {
		name  string
		width int
		major int
		minor int
	}{
		{"width only", 8, 0, 0},
		{"version only", 0, 6, 2},
		{"both", 4, 1, 255},
		{"large major", 8, 32767, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := PackInfo(tt.width, tt.major, tt.minor)
			assert.Equal(t, Info{Width: tt.width, Major: tt.major, Minor: tt.minor}, ParseInfo(n))
			assert.Equal(t, tt.major != 0 || tt.minor != 0, HasVersion(n))
		})
	}
}

func TestModuleRecord(t *testing.T) {
	create := func(Instance) int { return 0 }
	p := NewPluginRecord("a.so", 1, create, GenericPlugin{
		ErrorString: func(status int) string { return "bad" },
	})
	assert.Equal(t, KindGenericPlugin, p.Kind())
	assert.Equal(t, "bad", p.ErrorText(3))
	_, isExt := p.Extension()
	assert.False(t, isExt)

	x := NewExtensionRecord("b.so", 2, ExtensionLibrary{})
	assert.Equal(t, "extension", x.Kind().String())
	assert.Empty(t, x.ErrorText(3))
	assert.Nil(t, x.Create)
}

func TestGeneratorEntrySentinel(t *testing.T) {
	assert.True(t, GeneratorEntry{}.IsSentinel())
	assert.False(t, GeneratorEntry{Name: "sine"}.IsSentinel())
}

func TestLoadStatusString(t *testing.T) {
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "already-loaded", StatusAlreadyLoaded.String())
}
