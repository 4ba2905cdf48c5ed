package host

import (
	"fmt"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
)

// Exported symbol names a module may provide.
const (
	SymbolInfo           = "ModuleInfo"
	SymbolCreate         = "ModuleCreate"
	SymbolInit           = "ModuleInit"
	SymbolDestroy        = "ModuleDestroy"
	SymbolErrorString    = "ModuleErrorString"
	SymbolOperationTable = "OperationTable"
	SymbolGeneratorTable = "GeneratorTable"
)

// lookup resolves name from the library as a T. A symbol of the wrong type
// is reported and treated as absent.
func lookup[T any](h *Host, handle entities.Handle, module, name string) (T, bool) {
	var zero T
	sym, ok := h.lib.Symbol(handle, name)
	if !ok || sym == nil {
		return zero, false
	}
	fn, ok := sym.(T)
	if !ok {
		h.logger().Warn(fmt.Sprintf("ignoring symbol '%s' in '%s': unexpected type %T", name, module, sym))
		return zero, false
	}
	return fn, true
}
