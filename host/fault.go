package host

import (
	stdErrors "errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
)

// guard runs fn on behalf of module name and converts an abrupt abort
// into an *errors.AbortError. The name of the module whose code is running
// is restored on both paths, so nested loads report correctly.
func (h *Host) guard(name string, fn func()) (err error) {
	saved := h.active
	h.active = name
	defer func() {
		h.active = saved
		if r := recover(); r != nil {
			err = abortFrom(name, r)
		}
	}()
	fn()
	return nil
}

// protect runs a lifecycle hook under guard.
func (h *Host) protect(name string, hook entities.HookFunc) (status int, err error) {
	err = h.guard(name, func() { status = hook(h) })
	return status, err
}

func abortFrom(name string, r any) *errors.AbortError {
	var ae *errors.AbortError
	switch v := r.(type) {
	case *errors.AbortError:
		ae = v
	case error:
		stdErrors.As(v, &ae)
	}
	if ae != nil {
		if ae.Module == "" {
			ae.Module = name
		}
		return ae
	}
	return &errors.AbortError{
		Value:  r,
		Module: name,
		Code:   entities.AbortFailure,
		Stack:  debug.Stack(),
	}
}

// exitTerminator is the default Terminator.
func (h *Host) exitTerminator(msg string, err error) {
	h.logger().Error(fmt.Sprintf("%s: %v", msg, err))
	os.Exit(1)
}
