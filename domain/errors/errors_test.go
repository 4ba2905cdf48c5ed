package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenError(t *testing.T) {
	baseErr := fmt.Errorf("no such file")
	err := &OpenError{Path: "/opt/mods/a.so", Err: baseErr}

	assert.Equal(t, "could not open library '/opt/mods/a.so': no such file", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	detail := err.ToErrorDetail()
	assert.Equal(t, "open", detail.Type)
	assert.True(t, detail.IsNotFound)
}

func TestCompatibilityError(t *testing.T) {
	host := entities.Info{Width: 8, Major: 6, Minor: 2}

	width := &CompatibilityError{Reason: ReasonWidth, Library: entities.Info{Width: 4}, Host: host}
	assert.Equal(t, "uses incompatible numeric width 4 (host 8)", width.Error())
	assert.Equal(t, "width", width.ToErrorDetail().Code)

	version := &CompatibilityError{Reason: ReasonVersion, Library: entities.Info{Major: 6, Minor: 3}, Host: host}
	assert.Equal(t, "incompatible with API version 6.2 (built for 6.3)", version.Error())
}

func TestHookError(t *testing.T) {
	err := &HookError{Module: "reverb.so", Hook: "ModuleCreate", Status: 3, Message: "no audio device"}
	assert.Equal(t, "module 'reverb.so': ModuleCreate returned 3: no audio device", err.Error())

	bare := &HookError{Module: "reverb.so", Hook: "ModuleInit", Status: 1}
	assert.Equal(t, "module 'reverb.so': ModuleInit returned 1", bare.Error())
	assert.Equal(t, ClassInitialization, ClassOf(bare))
}

func TestAbortError_Class(t *testing.T) {
	oom := &AbortError{Module: "a.so", Code: entities.AbortOutOfMemory}
	assert.Equal(t, ClassMemory, oom.Class())
	assert.Equal(t, "module 'a.so' aborted (code 2)", oom.Error())

	cause := fmt.Errorf("index out of range")
	crash := &AbortError{Module: "a.so", Code: entities.AbortFailure, Value: cause}
	assert.Equal(t, ClassInitialization, crash.Class())
	assert.True(t, errors.Is(crash, cause))
	assert.Equal(t, "module 'a.so' aborted: index out of range", crash.Error())
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"plain", fmt.Errorf("boom"), ClassSoft},
		{"sentinel", ErrNotPlugin, ClassSoft},
		{"load error", &LoadError{Path: "x", Class: ClassInitialization, Err: ErrNotPlugin}, ClassInitialization},
		{"wrapped memory", fmt.Errorf("insert: %w", &MemoryError{Current: 2, Limit: 2}), ClassMemory},
		{"abort", &AbortError{Code: entities.AbortOutOfMemory}, ClassMemory},
		{"scan", &ScanError{Class: ClassMemory}, ClassMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassOf(tt.err))
			assert.Equal(t, tt.want.Fatal(), IsFatal(tt.err))
		})
	}
	assert.False(t, IsFatal(nil))
}

func TestLoadError(t *testing.T) {
	err := &LoadError{Path: "lib/a.so", Class: ClassSoft, Err: &OpenError{Path: "lib/a.so", Err: fmt.Errorf("bad ELF")}}
	assert.Equal(t, "load 'lib/a.so' (soft): could not open library 'lib/a.so': bad ELF", err.Error())

	var openErr *OpenError
	require.True(t, errors.As(err, &openErr))

	detail := err.ToErrorDetail()
	assert.Equal(t, "load", detail.Type)
	require.NotNil(t, detail.Wrapped)
	assert.Equal(t, "open", detail.Wrapped.Type)
}

func TestPhaseError(t *testing.T) {
	first := &HookError{Module: "a.so", Hook: "ModuleInit", Status: 1}
	second := fmt.Errorf("close b.so: busy")
	err := &PhaseError{Phase: PhaseDestroy, Failures: []error{first, second}}

	assert.Contains(t, err.Error(), "destroy pass: 2 module(s) failed")
	assert.True(t, errors.Is(err, second))

	var hookErr *HookError
	require.True(t, errors.As(err, &hookErr))
	assert.Equal(t, "a.so", hookErr.Module)
}

func TestScanError(t *testing.T) {
	err := &ScanError{Dir: "/opt/mods", Class: ClassSoft, Failed: []string{"a.so", "b.so"}}
	assert.Equal(t, "some modules in '/opt/mods' could not be loaded (soft): a.so, b.so", err.Error())
}

func TestConfigError(t *testing.T) {
	baseErr := fmt.Errorf("invalid format")
	err := &ConfigError{
		Field: "width",
		Err:   baseErr,
	}

	assert.Equal(t, "config validation failed for field 'width': invalid format", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	noField := &ConfigError{Err: baseErr}
	assert.Equal(t, "config validation failed: invalid format", noField.Error())
}

func TestToErrorDetail(t *testing.T) {
	assert.Nil(t, ToErrorDetail(nil))

	generic := ToErrorDetail(fmt.Errorf("plain"))
	assert.Equal(t, "internal", generic.Type)

	mem := ToErrorDetail(fmt.Errorf("wrapped: %w", &MemoryError{Current: 1, Limit: 1}))
	assert.Equal(t, "memory_limit", mem.Code)

	entity := &entities.ErrorDetail{Type: "custom", Message: "m"}
	assert.Same(t, entity, ToErrorDetail(entity))
}
