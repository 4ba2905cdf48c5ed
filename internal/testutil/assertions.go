// Package testutil provides common test utilities and assertions for host tests.
package testutil

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorClass asserts that err is non-nil and has the given severity class.
func AssertErrorClass(t *testing.T, expected errors.Class, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.Equal(t, expected, errors.ClassOf(err), msgAndArgs...)
}

// AssertSoft asserts that err is a soft load failure.
func AssertSoft(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	AssertErrorClass(t, errors.ClassSoft, err, msgAndArgs...)
	assert.False(t, errors.IsFatal(err), msgAndArgs...)
}

// AssertFatal asserts that err is an initialization or out-of-memory failure.
func AssertFatal(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.True(t, errors.IsFatal(err), msgAndArgs...)
}

// AssertLoaded asserts a successful load with the given status.
func AssertLoaded(t *testing.T, expected entities.LoadStatus, status entities.LoadStatus, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
	assert.Equal(t, expected, status, msgAndArgs...)
}

// AssertNoOpenHandles asserts that every handle the fake library gave out
// has been closed.
func AssertNoOpenHandles(t *testing.T, lib *FakeLibrary, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Zero(t, lib.Live(), msgAndArgs...)
	assert.Empty(t, lib.Errors(), "fake library misuse")
}

// AssertPanics asserts that the function panics
func AssertPanics(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	assert.Panics(t, f, msgAndArgs...)
}

// RequireNoError is a convenience wrapper for require.NoError
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}
