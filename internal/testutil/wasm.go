package testutil

// A tiny WebAssembly binary encoder for building test modules without a
// toolchain. It supports function imports, functions, one exported memory
// page, active data segments and function exports.

// ValType is a WebAssembly value type.
type ValType byte

// Value types.
const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
	F64 ValType = 0x7C
)

type wasmSig struct {
	params  []ValType
	results []ValType
}

type wasmImport struct {
	module string
	name   string
	sig    int
}

type wasmFunc struct {
	sig    int
	export string
	body   []byte
}

type wasmData struct {
	offset uint32
	bytes  []byte
}

// WasmModule accumulates the sections of a module.
type WasmModule struct {
	sigs    []wasmSig
	imports []wasmImport
	funcs   []wasmFunc
	data    []wasmData
}

// NewWasmModule creates an empty module with one page of memory exported
// as "memory".
func NewWasmModule() *WasmModule {
	return &WasmModule{}
}

func (m *WasmModule) sig(params, results []ValType) int {
	m.sigs = append(m.sigs, wasmSig{params: params, results: results})
	return len(m.sigs) - 1
}

// ImportFunc declares an imported function and returns its index.
// Imports must be declared before any function.
func (m *WasmModule) ImportFunc(module, name string, params, results []ValType) uint32 {
	if len(m.funcs) > 0 {
		panic("testutil: imports must be declared before functions")
	}
	m.imports = append(m.imports, wasmImport{module: module, name: name, sig: m.sig(params, results)})
	return uint32(len(m.imports) - 1)
}

// Func defines a function from instructions and returns its index. The
// terminating end opcode is appended. An empty export name keeps the
// function private.
func (m *WasmModule) Func(export string, params, results []ValType, instrs ...[]byte) uint32 {
	var body []byte
	for _, in := range instrs {
		body = append(body, in...)
	}
	body = append(body, 0x0B)
	m.funcs = append(m.funcs, wasmFunc{sig: m.sig(params, results), export: export, body: body})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Data places b at offset in memory.
func (m *WasmModule) Data(offset uint32, b []byte) *WasmModule {
	m.data = append(m.data, wasmData{offset: offset, bytes: b})
	return m
}

// Bytes encodes the module.
func (m *WasmModule) Bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	var types []byte
	types = appendULEB(types, uint64(len(m.sigs)))
	for _, s := range m.sigs {
		types = append(types, 0x60)
		types = appendValTypes(types, s.params)
		types = appendValTypes(types, s.results)
	}
	out = appendSection(out, 1, types)

	if len(m.imports) > 0 {
		var imps []byte
		imps = appendULEB(imps, uint64(len(m.imports)))
		for _, im := range m.imports {
			imps = appendName(imps, im.module)
			imps = appendName(imps, im.name)
			imps = append(imps, 0x00)
			imps = appendULEB(imps, uint64(im.sig))
		}
		out = appendSection(out, 2, imps)
	}

	var fns []byte
	fns = appendULEB(fns, uint64(len(m.funcs)))
	for _, f := range m.funcs {
		fns = appendULEB(fns, uint64(f.sig))
	}
	out = appendSection(out, 3, fns)

	// One page, no maximum.
	out = appendSection(out, 5, []byte{0x01, 0x00, 0x01})

	var exps []byte
	count := 1
	for _, f := range m.funcs {
		if f.export != "" {
			count++
		}
	}
	exps = appendULEB(exps, uint64(count))
	exps = appendName(exps, "memory")
	exps = append(exps, 0x02, 0x00)
	for i, f := range m.funcs {
		if f.export == "" {
			continue
		}
		exps = appendName(exps, f.export)
		exps = append(exps, 0x00)
		exps = appendULEB(exps, uint64(len(m.imports)+i))
	}
	out = appendSection(out, 7, exps)

	var code []byte
	code = appendULEB(code, uint64(len(m.funcs)))
	for _, f := range m.funcs {
		body := append([]byte{0x00}, f.body...) // no locals
		code = appendULEB(code, uint64(len(body)))
		code = append(code, body...)
	}
	out = appendSection(out, 10, code)

	if len(m.data) > 0 {
		var data []byte
		data = appendULEB(data, uint64(len(m.data)))
		for _, d := range m.data {
			data = append(data, 0x00)
			data = append(data, I32Const(int32(d.offset))...) //nolint:gosec // test offsets are small
			data = append(data, 0x0B)
			data = appendULEB(data, uint64(len(d.bytes)))
			data = append(data, d.bytes...)
		}
		out = appendSection(out, 11, data)
	}
	return out
}

// I32Const pushes a 32-bit constant.
func I32Const(v int32) []byte { return appendSLEB([]byte{0x41}, int64(v)) }

// I64Const pushes a 64-bit constant.
func I64Const(v int64) []byte { return appendSLEB([]byte{0x42}, v) }

// Call calls function idx.
func Call(idx uint32) []byte { return appendULEB([]byte{0x10}, uint64(idx)) }

// LocalGet pushes parameter or local i.
func LocalGet(i uint32) []byte { return appendULEB([]byte{0x20}, uint64(i)) }

// Unreachable traps.
func Unreachable() []byte { return []byte{0x00} }

// Drop discards the top of the stack.
func Drop() []byte { return []byte{0x1A} }

// Packed returns the i64 constant (ptr << 32) | len.
func Packed(ptr, length uint32) []byte {
	return I64Const(int64(uint64(ptr)<<32 | uint64(length))) //nolint:gosec // bit pattern is intended
}

func appendSection(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = appendULEB(out, uint64(len(content)))
	return append(out, content...)
}

func appendValTypes(b []byte, ts []ValType) []byte {
	b = appendULEB(b, uint64(len(ts)))
	for _, t := range ts {
		b = append(b, byte(t))
	}
	return b
}

func appendName(b []byte, s string) []byte {
	b = appendULEB(b, uint64(len(s)))
	return append(b, s...)
}

func appendULEB(b []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func appendSLEB(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}
