package testutil

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.Library = (*FakeLibrary)(nil)

// Symbols maps exported symbol names to values.
type Symbols map[string]any

// FakeHandle is the handle type returned by FakeLibrary.
type FakeHandle struct {
	path string
	refs int
}

// Path returns the path the handle was opened from.
func (h *FakeHandle) Path() string { return h.path }

// FakeLibrary is a scripted ports.Library. Libraries are registered by
// path; opening the same path twice returns the same reference-counted
// handle.
type FakeLibrary struct {
	mu       sync.Mutex
	suffix   string
	modules  map[string]Symbols
	openErr  map[string]error
	closeErr map[string]error
	handles  map[string]*FakeHandle
	opened   []string
	opens    map[string]int
	closes   map[string]int
	misuse   []error
}

// NewFakeLibrary creates an empty fake with the ".so" suffix.
func NewFakeLibrary() *FakeLibrary {
	return &FakeLibrary{
		suffix:   ".so",
		modules:  make(map[string]Symbols),
		openErr:  make(map[string]error),
		closeErr: make(map[string]error),
		handles:  make(map[string]*FakeHandle),
		opens:    make(map[string]int),
		closes:   make(map[string]int),
	}
}

// WithSuffix changes the reported suffix.
func (l *FakeLibrary) WithSuffix(s string) *FakeLibrary {
	l.suffix = s
	return l
}

// Add registers a library at path.
func (l *FakeLibrary) Add(path string, syms Symbols) *FakeLibrary {
	l.mu.Lock()
	defer l.mu.Unlock()
	if syms == nil {
		syms = Symbols{}
	}
	l.modules[path] = syms
	return l
}

// FailOpen makes opening path fail with err.
func (l *FakeLibrary) FailOpen(path string, err error) *FakeLibrary {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.openErr[path] = err
	return l
}

// FailClose makes closing the handle for path fail with err.
func (l *FakeLibrary) FailClose(path string, err error) *FakeLibrary {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeErr[path] = err
	return l
}

// Open implements ports.Library.
func (l *FakeLibrary) Open(path string) (entities.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.opened = append(l.opened, path)
	if err := l.openErr[path]; err != nil {
		return nil, err
	}
	if _, ok := l.modules[path]; !ok {
		return nil, fmt.Errorf("%s: cannot open shared object file: No such file or directory", path)
	}

	h := l.handles[path]
	if h == nil {
		h = &FakeHandle{path: path}
		l.handles[path] = h
	}
	h.refs++
	l.opens[path]++
	return h, nil
}

// Close implements ports.Library.
func (l *FakeLibrary) Close(handle entities.Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := handle.(*FakeHandle)
	if !ok {
		err := fmt.Errorf("close of foreign handle %v", handle)
		l.misuse = append(l.misuse, err)
		return err
	}
	if h.refs <= 0 {
		err := fmt.Errorf("close of released handle %q", h.path)
		l.misuse = append(l.misuse, err)
		return err
	}
	h.refs--
	l.closes[h.path]++
	if h.refs == 0 {
		delete(l.handles, h.path)
	}
	return l.closeErr[h.path]
}

// Symbol implements ports.Library.
func (l *FakeLibrary) Symbol(handle entities.Handle, name string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := handle.(*FakeHandle)
	if !ok || h.refs <= 0 {
		l.misuse = append(l.misuse, fmt.Errorf("symbol %q looked up on invalid handle", name))
		return nil, false
	}
	sym, ok := l.modules[h.path][name]
	return sym, ok
}

// Suffix implements ports.Library.
func (l *FakeLibrary) Suffix() string {
	return l.suffix
}

// Opened returns every path passed to Open, in call order.
func (l *FakeLibrary) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}

// OpenCount returns the number of successful opens of path.
func (l *FakeLibrary) OpenCount(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens[path]
}

// CloseCount returns the number of closes of path.
func (l *FakeLibrary) CloseCount(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closes[path]
}

// Live returns the number of outstanding references across all handles.
func (l *FakeLibrary) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, h := range l.handles {
		n += h.refs
	}
	return n
}

// LivePaths returns the sorted paths that still have open references.
func (l *FakeLibrary) LivePaths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.handles))
	for p := range l.handles {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Errors returns detected misuse: double closes, foreign handles, lookups
// on released handles.
func (l *FakeLibrary) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.misuse...)
}
