package ports

import "github.com/reglet-dev/reglet-modhost/domain/entities"

// GeneratorRegistry is the host's table of named generator routines.
// Entries are never removed once registered.
type GeneratorRegistry interface {
	// Register adds a named routine. Registering a name again replaces the
	// routine the host resolves for that name.
	Register(name string, routine entities.GeneratorFunc) error
}

// OperationTable is the host's table of extension operations.
// Entries are never removed once appended.
type OperationTable interface {
	// Append adds a block of operation descriptors.
	Append(ops []entities.OperationEntry) error
}
