package entities

import "log/slog"

// Hook signatures resolved from module libraries. They are aliases so that a
// symbol looked up from a library can be type-asserted against them directly.
type (
	// InfoFunc returns the packed ABI info word (see PackInfo).
	InfoFunc = func() int

	// HookFunc is a lifecycle hook. A nonzero result is a module error code.
	HookFunc = func(Instance) int

	// ErrorStringFunc converts a module error code to a message.
	ErrorStringFunc = func(int) string

	// OperationTableFunc returns a block of operation descriptors and the
	// number of valid entries in it.
	OperationTableFunc = func(Instance) ([]OperationEntry, int)

	// GeneratorTableFunc returns named generator routines. The table ends at
	// the first entry with an empty name, or at the end of the slice.
	GeneratorTableFunc = func(Instance) []GeneratorEntry
)

// AbortCode classifies an abrupt abort raised through Instance.Abort.
type AbortCode int

const (
	// AbortFailure is a generic fatal abort.
	AbortFailure AbortCode = 1
	// AbortOutOfMemory reports an allocation failure.
	AbortOutOfMemory AbortCode = 2
)

// Instance is the view of the host handed to module hooks.
type Instance interface {
	// Logger is the host's diagnostic channel.
	Logger() *slog.Logger

	// RegisterGenerator adds a named generator routine to the host.
	RegisterGenerator(name string, routine GeneratorFunc) error

	// AppendOperations adds operation descriptors to the host's table.
	AppendOperations(ops []OperationEntry) error

	// Load loads another library, typically a dependency of the calling
	// module. It follows the same rules as loading from the host.
	Load(path string) (LoadStatus, error)

	// Abort terminates the running hook abruptly. It does not return.
	Abort(code AbortCode)
}
