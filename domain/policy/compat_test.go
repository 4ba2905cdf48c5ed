package policy_test

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/reglet-dev/reglet-modhost/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	names   []string
	reasons []string
}

func (h *recordingHandler) OnReject(name, reason string, _ entities.Info) {
	h.names = append(h.names, name)
	h.reasons = append(h.reasons, reason)
}

func TestCompatibility_Check(t *testing.T) {
	gate := policy.NewCompatibility(entities.Info{Width: 8, Major: 3, Minor: 4})

	tests := []struct {
		name   string
		info   int
		reason errors.CompatibilityReason // empty means accepted
	}{
		{"No info bits", 0, ""},
		{"Width only, matching", 8, ""},
		{"Width only, mismatched", 4, errors.ReasonWidth},
		{"Unspecified width, same version", entities.PackInfo(0, 3, 4), ""},
		{"Older minor", entities.PackInfo(8, 3, 1), ""},
		{"Zero minor", entities.PackInfo(8, 3, 0), ""},
		{"Newer minor", entities.PackInfo(8, 3, 5), errors.ReasonVersion},
		{"Older major", entities.PackInfo(8, 2, 0), errors.ReasonVersion},
		{"Newer major", entities.PackInfo(8, 4, 0), errors.ReasonVersion},
		{"Width mismatch wins over matching version", entities.PackInfo(4, 3, 4), errors.ReasonWidth},
		{"Width mismatch with bad version", entities.PackInfo(4, 9, 9), errors.ReasonWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Check("mod.so", tt.info)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var ce *errors.CompatibilityError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.reason, ce.Reason)
			assert.Equal(t, gate.Host(), ce.Host)
			assert.Equal(t, errors.ClassSoft, errors.ClassOf(err))
		})
	}
}

func TestCompatibility_MinorBoundary(t *testing.T) {
	gate := policy.NewCompatibility(entities.Info{Width: 4, Major: 1, Minor: 2})

	for minor := 0; minor <= 2; minor++ {
		assert.NoError(t, gate.Check("m", entities.PackInfo(4, 1, minor)), "minor %d", minor)
	}
	for minor := 3; minor < 256; minor++ {
		assert.Error(t, gate.Check("m", entities.PackInfo(4, 1, minor)), "minor %d", minor)
	}
}

func TestCompatibility_RejectionHandler(t *testing.T) {
	h := &recordingHandler{}
	gate := policy.NewCompatibility(entities.Info{Width: 8, Major: 1, Minor: 0},
		policy.WithRejectionHandler(h))

	require.NoError(t, gate.Check("ok.so", entities.PackInfo(8, 1, 0)))
	require.Error(t, gate.Check("narrow.so", 4))
	require.Error(t, gate.Check("future.so", entities.PackInfo(8, 2, 0)))

	assert.Equal(t, []string{"narrow.so", "future.so"}, h.names)
	assert.Equal(t, []string{policy.ReasonWidth, policy.ReasonVersion}, h.reasons)
}

func TestRejectionMessage(t *testing.T) {
	assert.Equal(t, "not loading 'a.so' (uses incompatible floating point width)",
		policy.RejectionMessage("a.so", policy.ReasonWidth))
	assert.Equal(t, "not loading 'a.so' (incompatible with this API version)",
		policy.RejectionMessage("a.so", policy.ReasonVersion))
}

func TestNewCompatibility_NilHandlerKeepsDefault(t *testing.T) {
	gate := policy.NewCompatibility(entities.Info{Width: 8}, policy.WithRejectionHandler(nil))
	assert.NotPanics(t, func() {
		_ = gate.Check("m", 4)
	})
}
