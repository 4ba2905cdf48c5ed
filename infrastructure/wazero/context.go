package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var moduleNameKey = &contextKey{name: "module_name"}

// withModuleName tags a guest call with the runtime name of the module
// being called.
func withModuleName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, moduleNameKey, name)
}

// moduleNameFromContext retrieves the module name from the context.
func moduleNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(moduleNameKey).(string)
	return name, ok
}

// callerName identifies the guest making a host call, falling back to the
// runtime module name.
func callerName(ctx context.Context, mod api.Module) string {
	if name, ok := moduleNameFromContext(ctx); ok {
		return name
	}
	return mod.Name()
}
