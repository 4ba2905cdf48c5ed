package catalog

import (
	"fmt"
	"sort"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.GeneratorRegistry = (*Generators)(nil)

// generatorsConfig holds configuration for Generators.
type generatorsConfig struct {
	strictMode bool // Fail on duplicate names
}

// GeneratorsOption configures a Generators registry.
type GeneratorsOption func(*generatorsConfig)

// WithStrictMode makes registering an existing name an error.
// Default is false: a later registration replaces the earlier routine.
func WithStrictMode(enabled bool) GeneratorsOption {
	return func(c *generatorsConfig) {
		c.strictMode = enabled
	}
}

// Generators is a named collection of generator routines.
type Generators struct {
	config   generatorsConfig
	routines map[string]entities.GeneratorFunc
	names    []string // sorted for consistent iteration
}

// NewGenerators creates an empty registry.
func NewGenerators(opts ...GeneratorsOption) *Generators {
	var cfg generatorsConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Generators{
		config:   cfg,
		routines: make(map[string]entities.GeneratorFunc),
	}
}

// Register implements ports.GeneratorRegistry.
func (g *Generators) Register(name string, routine entities.GeneratorFunc) error {
	if name == "" {
		return fmt.Errorf("generator name cannot be empty")
	}
	if routine == nil {
		return fmt.Errorf("generator %q has no routine", name)
	}
	if _, exists := g.routines[name]; exists {
		if g.config.strictMode {
			return fmt.Errorf("duplicate generator name: %q", name)
		}
	} else {
		i := sort.SearchStrings(g.names, name)
		g.names = append(g.names, "")
		copy(g.names[i+1:], g.names[i:])
		g.names[i] = name
	}
	g.routines[name] = routine
	return nil
}

// Lookup returns the routine registered under name.
func (g *Generators) Lookup(name string) (entities.GeneratorFunc, bool) {
	r, ok := g.routines[name]
	return r, ok
}

// Has returns true if a routine with the given name is registered.
func (g *Generators) Has(name string) bool {
	_, ok := g.routines[name]
	return ok
}

// Names returns a sorted list of all registered names.
func (g *Generators) Names() []string {
	result := make([]string, len(g.names))
	copy(result, g.names)
	return result
}

// Len returns the number of registered routines.
func (g *Generators) Len() int {
	return len(g.routines)
}
