// Package wazero implements the library primitive on top of the wazero
// WebAssembly runtime.
//
// A module library is a .wasm file. Its exported functions are bound to the
// host's hook types when resolved through Library.Symbol:
//
//	ModuleInfo         () -> i32          packed info word
//	ModuleCreate       () -> i32          status
//	ModuleInit         () -> i32          status
//	ModuleDestroy      () -> i32          status
//	ModuleErrorString  (i32) -> i64       packed ptr+len of UTF-8 text
//	OperationTable     () -> i64          packed ptr+len of a JSON array
//	GeneratorTable     () -> i64          packed ptr+len of a JSON array
//
// Operation descriptors name further exports for their entry points:
//
//	[{"name":"add","inputs":"dd","outputs":"d","init":"add_init","perform":"add"}]
//
// An entry point has the signature (i32 ptr, i32 argc) -> i32, where ptr
// addresses argc little-endian f64 values written through the guest's
// "allocate" export. Generator descriptors are {"name","routine"}; a
// routine has the signature (i32 size) -> i32 and returns the address of
// size f64 values, or 0 on failure.
//
// Guests may import two functions from the "modhost" host module:
//
//	abort(i32 code)         abort the running hook
//	log(i32 ptr, i32 len)   write a message to the host's logger
//
// # Basic Usage
//
//	lib, err := wazero.NewLibrary(ctx, wazero.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer lib.Close(ctx)
//
//	h, err := host.New(lib, host.WithLogger(logger))
package wazero
