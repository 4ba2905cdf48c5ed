// Package entities provides core domain entities for the module host.
// These are the records, interface shapes and table descriptors shared by
// the loader, the registry and the library adapters. The package depends on
// the standard library only.
package entities
