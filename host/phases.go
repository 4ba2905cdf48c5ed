package host

import (
	"fmt"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
)

// InitModules runs the initialization pass over every loaded module, most
// recently loaded first. Hooks and table providers run under the fault
// barrier. A failing module is reported and the pass continues; the result
// aggregates the failures in a *errors.PhaseError.
func (h *Host) InitModules() error {
	var failures []error
	for _, rec := range h.modules.Records() {
		switch iface := rec.Interface.(type) {
		case *entities.GenericPlugin:
			if iface.Init == nil {
				continue
			}
			status, err := h.protect(rec.Name, iface.Init)
			if err != nil {
				h.logger().Error(fmt.Sprintf("Error starting module '%s': %v", rec.Name, err))
				failures = append(failures, err)
				continue
			}
			if status != 0 {
				he := &errors.HookError{Module: rec.Name, Hook: SymbolInit, Status: status, Message: rec.ErrorText(status)}
				h.logger().Error(withText(fmt.Sprintf("Error starting module '%s'", rec.Name), he.Message))
				failures = append(failures, he)
			}
		case *entities.ExtensionLibrary:
			failures = append(failures, h.initExtension(rec, iface)...)
		}
	}

	if len(failures) > 0 {
		return &errors.PhaseError{Phase: errors.PhaseInit, Failures: failures}
	}
	return nil
}

func (h *Host) initExtension(rec *entities.ModuleRecord, x *entities.ExtensionLibrary) []error {
	var failures []error

	if x.Generators != nil {
		var gens []entities.GeneratorEntry
		if err := h.guard(rec.Name, func() { gens = x.Generators(h) }); err != nil {
			h.logger().Error(fmt.Sprintf("Error starting module '%s': %v", rec.Name, err))
			failures = append(failures, err)
		}
		for _, g := range gens {
			if g.IsSentinel() {
				break
			}
			if err := h.RegisterGenerator(g.Name, g.Routine); err != nil {
				err = fmt.Errorf("module '%s': generator '%s': %w", rec.Name, g.Name, err)
				h.logger().Error(err.Error())
				failures = append(failures, err)
			}
		}
	}

	if x.Operations != nil {
		var (
			block []entities.OperationEntry
			count int
		)
		if err := h.guard(rec.Name, func() { block, count = x.Operations(h) }); err != nil {
			h.logger().Error(fmt.Sprintf("Error starting module '%s': %v", rec.Name, err))
			return append(failures, err)
		}
		switch {
		case count <= 0 || count > len(block):
			err := fmt.Errorf("module '%s': %w: %d entries declared, %d provided",
				rec.Name, errors.ErrInvalidTable, count, len(block))
			h.logger().Error(err.Error())
			failures = append(failures, err)
		default:
			if err := h.AppendOperations(block[:count]); err != nil {
				err = fmt.Errorf("module '%s': operations: %w", rec.Name, err)
				h.logger().Error(err.Error())
				failures = append(failures, err)
			}
		}
	}

	return failures
}

// DestroyModules tears down every loaded module, most recently loaded
// first: the destroy hook runs under the fault barrier, then the library
// is closed whatever the hook did. The registry is empty afterwards and the host can be
// used again as if new. Entries registered with the generator registry and
// operation table are not removed.
func (h *Host) DestroyModules() error {
	var failures []error
	for rec := h.modules.Pop(); rec != nil; rec = h.modules.Pop() {
		if p, ok := rec.Plugin(); ok && p.Destroy != nil {
			status, err := h.protect(rec.Name, p.Destroy)
			switch {
			case err != nil:
				h.logger().Error(fmt.Sprintf("Error de-initialising module '%s': %v", rec.Name, err))
				failures = append(failures, err)
			case status != 0:
				he := &errors.HookError{Module: rec.Name, Hook: SymbolDestroy, Status: status, Message: rec.ErrorText(status)}
				h.logger().Error(withText(fmt.Sprintf("Error de-initialising module '%s'", rec.Name), he.Message))
				failures = append(failures, he)
			}
		}

		if err := h.lib.Close(rec.Handle); err != nil {
			err = fmt.Errorf("could not close module '%s': %w", rec.Name, err)
			h.logger().Error(err.Error())
			failures = append(failures, err)
		}
	}
	h.modules.Reset()

	if len(failures) > 0 {
		return &errors.PhaseError{Phase: errors.PhaseDestroy, Failures: failures}
	}
	return nil
}
