// Package native implements the library primitive with Go's plugin package.
//
// A module library is a Go plugin built with -buildmode=plugin. Hooks are
// exported as top-level functions or function variables whose types match
// the host's hook types exactly:
//
//	func ModuleCreate(inst entities.Instance) int { ... }
//	var ModuleInfo = func() int { return entities.PackInfo(8, 1, 2) }
//
// Go plugins cannot be unloaded. Close drops the reference; once the last
// reference is gone the handle is retired and symbols are no longer
// resolved through it.
package native

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"plugin"
	"reflect"
	"sync"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
)

// Suffix is the filename suffix of Go plugins.
const Suffix = ".so"

type libraryConfig struct {
	logger *slog.Logger
	open   func(path string) (symbolTable, error)
}

// Option configures the library primitive.
type Option func(*libraryConfig)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *libraryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// symbolTable is the part of *plugin.Plugin the library uses.
type symbolTable interface {
	Lookup(name string) (plugin.Symbol, error)
}

func openPlugin(path string) (symbolTable, error) {
	return plugin.Open(path)
}

func defaultLibraryConfig() libraryConfig {
	return libraryConfig{
		logger: slog.Default(),
		open:   openPlugin,
	}
}

// Library opens Go plugins as module libraries.
type Library struct {
	handles map[string]*handle
	config  libraryConfig
	mu      sync.Mutex
}

// handle is the handle type of Library.
type handle struct {
	syms symbolTable
	path string
	refs int
}

// NewLibrary creates a Go plugin library primitive.
func NewLibrary(opts ...Option) *Library {
	cfg := defaultLibraryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Library{config: cfg, handles: make(map[string]*handle)}
}

// Suffix implements ports.Library.
func (l *Library) Suffix() string {
	return Suffix
}

// Open implements ports.Library.
func (l *Library) Open(path string) (entities.Handle, error) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.handles[key]; ok {
		h.refs++
		return h, nil
	}

	syms, err := l.config.open(key)
	if err != nil {
		return nil, err
	}
	h := &handle{syms: syms, path: key, refs: 1}
	l.handles[key] = h
	return h, nil
}

// Close implements ports.Library.
func (l *Library) Close(eh entities.Handle) error {
	h, ok := eh.(*handle)
	if !ok || h == nil {
		return fmt.Errorf("native: handle %v was not opened by this library", eh)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handles[h.path] != h {
		return fmt.Errorf("native: library '%s' is not open", h.path)
	}
	h.refs--
	if h.refs == 0 {
		delete(l.handles, h.path)
		l.config.logger.Debug("native: plugin retired", "path", h.path)
	}
	return nil
}

// Symbol implements ports.Library. A function variable is dereferenced so
// that callers can assert the hook type directly.
func (l *Library) Symbol(eh entities.Handle, name string) (any, bool) {
	h, ok := eh.(*handle)
	if !ok || h == nil {
		return nil, false
	}

	l.mu.Lock()
	live := l.handles[h.path] == h
	l.mu.Unlock()
	if !live {
		return nil, false
	}

	sym, err := h.syms.Lookup(name)
	if err != nil {
		return nil, false
	}
	return deref(sym), true
}

// Live returns the number of open plugins.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handles)
}

// deref turns a pointer to a function variable into the function.
func deref(sym any) any {
	v := reflect.ValueOf(sym)
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Func {
		return v.Elem().Interface()
	}
	return sym
}
