package wazero

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/reglet-dev/reglet-modhost/internal/abi"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Suffix is the filename suffix of WebAssembly module libraries.
const Suffix = ".wasm"

// libraryConfig holds configuration for the library primitive.
type libraryConfig struct {
	logger           *slog.Logger
	cache            wazero.CompilationCache
	hostModule       string
	memoryLimitPages uint32
	wasi             bool
}

// Option configures the library primitive.
type Option func(*libraryConfig)

// WithLogger sets the logger used for host calls made outside a hook.
func WithLogger(logger *slog.Logger) Option {
	return func(c *libraryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHostModule sets the host module name guests import from
// (default: "modhost").
func WithHostModule(name string) Option {
	return func(c *libraryConfig) {
		if name != "" {
			c.hostModule = name
		}
	}
}

// WithMemoryLimitPages caps each guest's linear memory, in 64 KiB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *libraryConfig) {
		c.memoryLimitPages = pages
	}
}

// WithCompilationCache shares compiled code across libraries.
func WithCompilationCache(cache wazero.CompilationCache) Option {
	return func(c *libraryConfig) {
		c.cache = cache
	}
}

// WithWASI enables or disables the WASI preview1 imports (default: enabled).
func WithWASI(enabled bool) Option {
	return func(c *libraryConfig) {
		c.wasi = enabled
	}
}

func defaultLibraryConfig() libraryConfig {
	return libraryConfig{
		logger:     slog.Default(),
		hostModule: DefaultHostModule,
		wasi:       true,
	}
}

// Library opens WebAssembly modules as module libraries. Handles are
// reference counted per path: opening the same file twice returns the same
// handle, and the guest is released when the last reference is closed.
type Library struct {
	ctx     context.Context
	runtime wazero.Runtime
	byPath  map[string]*module
	byName  map[string]*module
	config  libraryConfig
	mu      sync.Mutex
	seq     int
}

// module is one instantiated guest. It is the handle type of Library.
type module struct {
	inst      entities.Instance
	lib       *Library
	mod       api.Module
	compiled  wazero.CompiledModule
	path      string
	name      string
	refs      int
	abortCode entities.AbortCode
}

// NewLibrary creates a runtime and instantiates the host module. Guest
// calls made through resolved symbols run under ctx.
func NewLibrary(ctx context.Context, opts ...Option) (*Library, error) {
	cfg := defaultLibraryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Library{
		ctx:     ctx,
		config:  cfg,
		runtime: wazero.NewRuntimeWithConfig(ctx, newRuntimeConfig(cfg)),
		byPath:  make(map[string]*module),
		byName:  make(map[string]*module),
	}

	if cfg.wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, l.runtime); err != nil {
			_ = l.runtime.Close(ctx)
			return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
		}
	}
	if err := l.registerHostModule(ctx); err != nil {
		_ = l.runtime.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate host module '%s': %w", cfg.hostModule, err)
	}
	return l, nil
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
	if m, ok := l.byPath[key]; ok {
		m.refs++
		l.mu.Unlock()
		return m, nil
	}
	l.seq++
	name := fmt.Sprintf("%s#%d", filepath.Base(key), l.seq)
	l.mu.Unlock()

	wasm, err := os.ReadFile(key)
	if err != nil {
		return nil, err
	}

	compiled, err := l.runtime.CompileModule(l.ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("invalid module: %w", err)
	}

	m := &module{lib: l, compiled: compiled, path: key, name: name, refs: 1}

	// Register before instantiation so host calls from the start
	// function can find the record.
	l.mu.Lock()
	l.byName[name] = m
	l.mu.Unlock()

	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions("_initialize")
	mod, err := l.runtime.InstantiateModule(withModuleName(l.ctx, name), compiled, cfg)
	if err != nil {
		l.mu.Lock()
		delete(l.byName, name)
		l.mu.Unlock()
		_ = compiled.Close(l.ctx)
		return nil, fmt.Errorf("failed to instantiate: %w", err)
	}
	m.mod = mod

	l.mu.Lock()
	l.byPath[key] = m
	l.mu.Unlock()
	return m, nil
}

// Close implements ports.Library.
func (l *Library) Close(h entities.Handle) error {
	m, err := l.module(h)
	if err != nil {
		return err
	}

	l.mu.Lock()
	m.refs--
	if m.refs > 0 {
		l.mu.Unlock()
		return nil
	}
	delete(l.byPath, m.path)
	delete(l.byName, m.name)
	l.mu.Unlock()

	return stdErrors.Join(m.mod.Close(l.ctx), m.compiled.Close(l.ctx))
}

// Symbol implements ports.Library. Known hook names are bound to the host's
// hook types when the export has the expected signature. An export with a
// different signature is returned as api.Function, which the host treats
// as a symbol of the wrong type.
func (l *Library) Symbol(h entities.Handle, name string) (any, bool) {
	m, err := l.module(h)
	if err != nil {
		return nil, false
	}
	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return nil, false
	}

	def := fn.Definition()
	switch {
	case name == "ModuleInfo" && signature(def, nil, i32):
		return m.info(fn), true
	case isHook(name) && signature(def, nil, i32):
		return m.hook(name, fn), true
	case name == "ModuleErrorString" && signature(def, i32, i64):
		return m.errorString(fn), true
	case name == "OperationTable" && signature(def, nil, i64):
		return m.operationTable(fn), true
	case name == "GeneratorTable" && signature(def, nil, i64):
		return m.generatorTable(fn), true
	}
	return fn, true
}

// CloseRuntime releases every open guest and the runtime.
func (l *Library) CloseRuntime(ctx context.Context) error {
	l.mu.Lock()
	l.byPath = make(map[string]*module)
	l.byName = make(map[string]*module)
	l.mu.Unlock()
	return l.runtime.Close(ctx)
}

// Live returns the number of guests currently open.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byPath)
}

func (l *Library) module(h entities.Handle) (*module, error) {
	m, ok := h.(*module)
	if !ok || m == nil || m.lib != l {
		return nil, fmt.Errorf("wazero: handle %v was not opened by this library", h)
	}
	return m, nil
}

func (l *Library) lookupRuntime(name string) *module {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byName[name]
}

var (
	i32 = []api.ValueType{api.ValueTypeI32}
	i64 = []api.ValueType{api.ValueTypeI64}
)

func signature(def api.FunctionDefinition, params, results []api.ValueType) bool {
	return equalTypes(def.ParamTypes(), params) && equalTypes(def.ResultTypes(), results)
}

func equalTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isHook(name string) bool {
	switch name {
	case "ModuleCreate", "ModuleInit", "ModuleDestroy":
		return true
	}
	return false
}

// call runs a guest export with inst as the active instance. A guest abort
// is re-raised through inst; any other failure panics with the runtime
// error so the host's fault barrier catches it.
func (m *module) call(inst entities.Instance, export string, fn api.Function, params ...uint64) []uint64 {
	prev := m.inst
	m.inst = inst
	m.abortCode = 0
	defer func() { m.inst = prev }()

	res, err := fn.Call(withModuleName(m.lib.ctx, m.name), params...)
	if err == nil {
		return res
	}
	if code := m.abortCode; code != 0 {
		m.abortCode = 0
		if inst != nil {
			inst.Abort(code)
		}
		panic(&errors.AbortError{Module: m.path, Code: code})
	}
	panic(fmt.Errorf("%s: %s: %w", filepath.Base(m.path), export, err))
}

func (m *module) logger(inst entities.Instance) *slog.Logger {
	if inst != nil {
		return inst.Logger()
	}
	return m.lib.config.logger
}

func (m *module) info(fn api.Function) entities.InfoFunc {
	return func() int {
		res := m.call(nil, "ModuleInfo", fn)
		return int(api.DecodeU32(res[0]))
	}
}

func (m *module) hook(export string, fn api.Function) entities.HookFunc {
	return func(inst entities.Instance) int {
		res := m.call(inst, export, fn)
		return int(api.DecodeI32(res[0]))
	}
}

func (m *module) errorString(fn api.Function) entities.ErrorStringFunc {
	return func(status int) string {
		res := m.call(nil, "ModuleErrorString", fn, api.EncodeI32(int32(status))) //nolint:gosec // G115: statuses come from i32 results
		if res[0] == 0 {
			return ""
		}
		text, err := abi.ReadString(m.mod.Memory(), res[0])
		if err != nil {
			m.lib.config.logger.Warn("wazero: failed to read error string", "module", m.path, "error", err)
			return ""
		}
		return text
	}
}

// operationDescriptor is the guest's JSON form of an operation entry.
type operationDescriptor struct {
	Name    string `json:"name"`
	Inputs  string `json:"inputs,omitempty"`
	Outputs string `json:"outputs,omitempty"`
	Init    string `json:"init,omitempty"`
	Perform string `json:"perform,omitempty"`
	Flags   uint32 `json:"flags,omitempty"`
}

// generatorDescriptor is the guest's JSON form of a generator entry.
type generatorDescriptor struct {
	Name    string `json:"name"`
	Routine string `json:"routine"`
}

func (m *module) operationTable(fn api.Function) entities.OperationTableFunc {
	return func(inst entities.Instance) ([]entities.OperationEntry, int) {
		res := m.call(inst, "OperationTable", fn)
		var descs []operationDescriptor
		if err := m.readJSON(res[0], &descs); err != nil {
			m.logger(inst).Warn("wazero: invalid operation table", "module", m.path, "error", err)
			return nil, 0
		}

		ops := make([]entities.OperationEntry, 0, len(descs))
		for _, d := range descs {
			ops = append(ops, entities.OperationEntry{
				Name:    d.Name,
				Inputs:  d.Inputs,
				Outputs: d.Outputs,
				Flags:   d.Flags,
				Init:    m.operation(d.Init),
				Perform: m.operation(d.Perform),
			})
		}
		return ops, len(ops)
	}
}

func (m *module) generatorTable(fn api.Function) entities.GeneratorTableFunc {
	return func(inst entities.Instance) []entities.GeneratorEntry {
		res := m.call(inst, "GeneratorTable", fn)
		var descs []generatorDescriptor
		if err := m.readJSON(res[0], &descs); err != nil {
			m.logger(inst).Warn("wazero: invalid generator table", "module", m.path, "error", err)
			return nil
		}

		gens := make([]entities.GeneratorEntry, 0, len(descs)+1)
		for _, d := range descs {
			if d.Name == "" {
				break
			}
			gens = append(gens, entities.GeneratorEntry{Name: d.Name, Routine: m.routine(d.Routine)})
		}
		return append(gens, entities.GeneratorEntry{})
	}
}

func (m *module) readJSON(packed uint64, v any) error {
	return abi.ReadJSON(m.mod.Memory(), packed, v)
}

// operation binds an entry point export. A missing or mistyped export
// yields nil.
func (m *module) operation(export string) entities.OperationFunc {
	if export == "" {
		return nil
	}
	fn := m.mod.ExportedFunction(export)
	if fn == nil || !signature(fn.Definition(), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, i32) {
		return nil
	}
	return func(args []float64) int {
		ctx := withModuleName(m.lib.ctx, m.name)
		ptr, ok := writeArgs(ctx, m.mod, args, m.lib.config.logger)
		if !ok {
			return 1
		}
		res := m.call(nil, export, fn, api.EncodeU32(ptr), api.EncodeI32(int32(len(args)))) //nolint:gosec // G115: argument counts are small
		return int(api.DecodeI32(res[0]))
	}
}

// routine binds a generator export.
func (m *module) routine(export string) entities.GeneratorFunc {
	fn := m.mod.ExportedFunction(export)
	if fn == nil || !signature(fn.Definition(), i32, i32) {
		return nil
	}
	return func(table []float64) int {
		res := m.call(nil, export, fn, api.EncodeI32(int32(len(table)))) //nolint:gosec // G115: table sizes are small
		ptr := api.DecodeU32(res[0])
		if ptr == 0 || m.mod.Memory() == nil || !readFloats(m.mod.Memory(), ptr, table) {
			return 1
		}
		return 0
	}
}
