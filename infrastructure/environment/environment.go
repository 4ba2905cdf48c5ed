// Package environment adapts process environment variables to ports.Environment.
package environment

import (
	"os"

	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// OS reads variables from the process environment.
type OS struct{}

// NewOS returns the process environment adapter.
func NewOS() ports.Environment {
	return OS{}
}

// Lookup implements ports.Environment.
func (OS) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Map is a fixed set of variables, for tests and embedding hosts.
type Map map[string]string

// Lookup implements ports.Environment.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}
