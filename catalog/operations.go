package catalog

import (
	"fmt"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.OperationTable = (*Operations)(nil)

// operationsConfig holds configuration for Operations.
type operationsConfig struct {
	limit int // Maximum number of entries, 0 for unbounded
}

// OperationsOption configures an Operations table.
type OperationsOption func(*operationsConfig)

// WithLimit bounds the number of entries the table accepts.
func WithLimit(n int) OperationsOption {
	return func(c *operationsConfig) {
		if n >= 0 {
			c.limit = n
		}
	}
}

// Operations is an ordered table of operation descriptors.
type Operations struct {
	config  operationsConfig
	entries []entities.OperationEntry
	index   map[string]int
}

// NewOperations creates an empty table.
func NewOperations(opts ...OperationsOption) *Operations {
	var cfg operationsConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Operations{config: cfg, index: make(map[string]int)}
}

// Append implements ports.OperationTable. A block is accepted whole or not
// at all.
func (o *Operations) Append(ops []entities.OperationEntry) error {
	if o.config.limit > 0 && len(o.entries)+len(ops) > o.config.limit {
		return fmt.Errorf("operation table full: %d entries, limit %d", len(o.entries)+len(ops), o.config.limit)
	}
	for i, op := range ops {
		if op.Name == "" {
			return fmt.Errorf("operation %d has no name", i)
		}
		if op.Perform == nil {
			return fmt.Errorf("operation %q has no perform routine", op.Name)
		}
	}

	for _, op := range ops {
		o.index[op.Name] = len(o.entries)
		o.entries = append(o.entries, op)
	}
	return nil
}

// Lookup returns the most recently appended operation with the given name.
func (o *Operations) Lookup(name string) (entities.OperationEntry, bool) {
	i, ok := o.index[name]
	if !ok {
		return entities.OperationEntry{}, false
	}
	return o.entries[i], true
}

// Entries returns a copy of the table in append order.
func (o *Operations) Entries() []entities.OperationEntry {
	result := make([]entities.OperationEntry, len(o.entries))
	copy(result, o.entries)
	return result
}

// Len returns the number of entries.
func (o *Operations) Len() int {
	return len(o.entries)
}
