package ports

import "github.com/reglet-dev/reglet-modhost/domain/entities"

// Library is the platform library primitive.
// Adapters wrap dlopen-style loaders (Go plugins, WebAssembly runtimes).
type Library interface {
	// Open loads the library at path. Opening a library that is already
	// open must return a handle equal to the first one.
	Open(path string) (entities.Handle, error)

	// Close releases one reference to the library.
	Close(h entities.Handle) error

	// Symbol resolves an exported symbol. A missing symbol is reported with
	// ok == false and is not an error.
	Symbol(h entities.Handle, name string) (sym any, ok bool)

	// Suffix is the filename suffix of libraries this primitive opens,
	// including the leading dot.
	Suffix() string
}
