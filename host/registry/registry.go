// Package registry holds the set of loaded modules, most recently loaded first.
package registry

import (
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	capacity int // Maximum number of records, 0 for unbounded
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		capacity: 0,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithCapacity bounds the number of records the registry can hold.
// Inserting beyond the bound fails with *errors.MemoryError.
func WithCapacity(n int) RegistryOption {
	return func(c *registryConfig) {
		if n >= 0 {
			c.capacity = n
		}
	}
}

type node struct {
	record *entities.ModuleRecord
	next   *node
}

// Registry is the owned collection of module records.
// Records are linked from the head; a new record always becomes the head.
// A Registry is not safe for concurrent use.
type Registry struct {
	config registryConfig
	head   *node
	free   *node // recycled nodes
	count  int
}

// New creates an empty Registry with the given options.
func New(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return r.count
}

// Empty reports whether the registry holds no records.
func (r *Registry) Empty() bool {
	return r.head == nil
}

// Capacity returns the record bound, 0 when unbounded.
func (r *Registry) Capacity() int {
	return r.config.capacity
}

// Insert places rec at the head.
func (r *Registry) Insert(rec *entities.ModuleRecord) error {
	if r.config.capacity > 0 && r.count >= r.config.capacity {
		return &errors.MemoryError{Current: r.count, Limit: r.config.capacity}
	}

	n := r.free
	if n != nil {
		r.free = n.next
	} else {
		n = &node{}
	}
	n.record = rec
	n.next = r.head
	r.head = n
	r.count++
	return nil
}

// Find returns the record owning handle h, or nil.
// Handles are compared with ==.
func (r *Registry) Find(h entities.Handle) *entities.ModuleRecord {
	for n := r.head; n != nil; n = n.next {
		if n.record.Handle == h {
			return n.record
		}
	}
	return nil
}

// Head returns the most recently inserted record, or nil.
func (r *Registry) Head() *entities.ModuleRecord {
	if r.head == nil {
		return nil
	}
	return r.head.record
}

// Pop unlinks and returns the head record, or nil when empty.
func (r *Registry) Pop() *entities.ModuleRecord {
	n := r.head
	if n == nil {
		return nil
	}
	r.head = n.next
	r.count--

	rec := n.record
	n.record = nil
	n.next = r.free
	r.free = n
	return rec
}

// Each calls fn for every record, head first, until fn returns false.
// fn must not insert or pop records.
func (r *Registry) Each(fn func(*entities.ModuleRecord) bool) {
	for n := r.head; n != nil; n = n.next {
		if !fn(n.record) {
			return
		}
	}
}

// Records returns a snapshot of the records, head first.
func (r *Registry) Records() []*entities.ModuleRecord {
	out := make([]*entities.ModuleRecord, 0, r.count)
	r.Each(func(rec *entities.ModuleRecord) bool {
		out = append(out, rec)
		return true
	})
	return out
}

// Names returns the record names, head first.
func (r *Registry) Names() []string {
	out := make([]string, 0, r.count)
	r.Each(func(rec *entities.ModuleRecord) bool {
		out = append(out, rec.Name)
		return true
	})
	return out
}

// Reset drops every record and recycled node. Handles are not closed.
func (r *Registry) Reset() {
	r.head = nil
	r.free = nil
	r.count = 0
}
