package wazero

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"math"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/internal/abi"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultHostModule is the name guests import host functions from.
const DefaultHostModule = "modhost"

// errGuestAbort unwinds the guest stack after abort was called.
var errGuestAbort = stdErrors.New("module called abort")

// registerHostModule instantiates the host module guests import from.
func (l *Library) registerHostModule(ctx context.Context) error {
	builder := l.runtime.NewHostModuleBuilder(l.config.hostModule)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(l.hostAbort),
			[]api.ValueType{api.ValueTypeI32}, []api.ValueType{}).
		WithParameterNames("code").
		Export("abort")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(l.hostLog),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{}).
		WithParameterNames("ptr", "len").
		Export("log")

	_, err := builder.Instantiate(ctx)
	return err
}

// hostAbort records the abort code on the calling module and unwinds the
// guest. The hook wrapper re-raises it through the host instance.
func (l *Library) hostAbort(ctx context.Context, mod api.Module, stack []uint64) {
	code := entities.AbortCode(api.DecodeI32(stack[0]))
	if code <= 0 {
		code = entities.AbortFailure
	}
	if m := l.lookupRuntime(callerName(ctx, mod)); m != nil {
		m.abortCode = code
	}
	panic(errGuestAbort)
}

// hostLog writes a guest message to the active instance's logger.
func (l *Library) hostLog(ctx context.Context, mod api.Module, stack []uint64) {
	ptr := api.DecodeU32(stack[0])
	length := api.DecodeU32(stack[1])

	logger := l.config.logger
	name := callerName(ctx, mod)
	if m := l.lookupRuntime(name); m != nil {
		name = m.path
		if m.inst != nil {
			logger = m.inst.Logger()
		}
	}

	msg, err := abi.ReadString(mod.Memory(), abi.PackPtrLen(ptr, length))
	if err != nil {
		logger.Warn("wazero: failed to read log message from guest memory", "module", name, "error", err)
		return
	}
	logger.Info(msg, "module", name)
}

// writeArgs copies args into guest memory through the guest's "allocate"
// export. Returns the guest address, or false on failure.
func writeArgs(ctx context.Context, mod api.Module, args []float64, logger *slog.Logger) (uint32, bool) {
	if len(args) == 0 {
		return 0, true
	}

	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		logger.Error("wazero: guest module missing 'allocate' export", "module", mod.Name())
		return 0, false
	}

	size := uint64(len(args)) * 8
	if size > math.MaxUint32 {
		return 0, false
	}
	results, err := allocateFn.Call(ctx, size)
	if err != nil {
		logger.Error("wazero: failed to call guest allocate", "module", mod.Name(), "error", err)
		return 0, false
	}
	ptr := api.DecodeU32(results[0])

	mem := mod.Memory()
	for i, v := range args {
		if !mem.WriteFloat64Le(ptr+uint32(i*8), v) { //nolint:gosec // G115: bounded by size check above
			logger.Error("wazero: failed to write arguments to guest memory", "module", mod.Name())
			return 0, false
		}
	}
	return ptr, true
}

// readFloats copies n little-endian f64 values from guest memory.
func readFloats(mem api.Memory, ptr uint32, out []float64) bool {
	for i := range out {
		v, ok := mem.ReadFloat64Le(ptr + uint32(i*8)) //nolint:gosec // G115: table sizes are small
		if !ok {
			return false
		}
		out[i] = v
	}
	return true
}

// newRuntimeConfig builds the runtime configuration from library options.
func newRuntimeConfig(cfg libraryConfig) wazero.RuntimeConfig {
	rc := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg.memoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	if cfg.cache != nil {
		rc = rc.WithCompilationCache(cfg.cache)
	}
	return rc
}
