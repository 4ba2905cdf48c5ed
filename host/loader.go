package host

import (
	"fmt"
	"os"
	"strings"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
)

// Load opens the library at path and registers it as a module.
//
// It returns StatusLoaded for a new module and StatusAlreadyLoaded when
// the library was registered before. Otherwise the error is a
// *errors.LoadError: soft when the library was rejected and left no state
// behind, fatal (initialization or out-of-memory class) when a recognized
// module could not be set up.
func (h *Host) Load(path string) (entities.LoadStatus, error) {
	if path == "" {
		return 0, &errors.LoadError{Err: errors.ErrEmptyPath, Path: path, Class: errors.ClassSoft}
	}
	name := moduleName(path)
	if name == "" {
		return 0, &errors.LoadError{Err: errors.ErrEmptyName, Path: path, Class: errors.ClassSoft}
	}

	handle, err := h.lib.Open(path)
	if err != nil {
		oe := &errors.OpenError{Err: err, Path: path}
		h.logger().Warn(oe.Error())
		return 0, &errors.LoadError{Err: oe, Path: path, Class: errors.ClassSoft}
	}

	if info, ok := lookup[entities.InfoFunc](h, handle, name, SymbolInfo); ok {
		var word int
		if err := h.guard(name, func() { word = info() }); err != nil {
			h.logger().Warn(fmt.Sprintf("could not read version information of '%s': %v", name, err))
			h.release(handle, path)
			return 0, &errors.LoadError{Err: err, Path: path, Class: errors.ClassSoft}
		}
		if err := h.gate.Check(name, word); err != nil {
			h.release(handle, path)
			return 0, &errors.LoadError{Err: err, Path: path, Class: errors.ClassSoft}
		}
	}

	if h.modules.Find(handle) != nil {
		h.release(handle, path)
		return entities.StatusAlreadyLoaded, nil
	}

	rec, err := h.resolve(handle, path, name)
	if err != nil {
		h.release(handle, path)
		return 0, &errors.LoadError{Err: err, Path: path, Class: errors.ClassSoft}
	}

	if err := h.modules.Insert(rec); err != nil {
		h.release(handle, path)
		h.logger().Error(fmt.Sprintf("could not register module '%s': %v", name, err))
		return 0, &errors.LoadError{Err: err, Path: path, Class: errors.ClassMemory}
	}

	if rec.Create != nil {
		if err := h.create(rec); err != nil {
			return 0, &errors.LoadError{Err: err, Path: path, Class: errors.ClassOf(err)}
		}
	}

	h.logger().Debug("module loaded", "module", name, "kind", rec.Kind(), "path", path)
	return entities.StatusLoaded, nil
}

// resolve detects the interface shape of the library and builds its record.
func (h *Host) resolve(handle entities.Handle, path, name string) (*entities.ModuleRecord, error) {
	if create, ok := lookup[entities.HookFunc](h, handle, name, SymbolCreate); ok {
		var p entities.GenericPlugin
		p.Init, _ = lookup[entities.HookFunc](h, handle, name, SymbolInit)
		p.Destroy, _ = lookup[entities.HookFunc](h, handle, name, SymbolDestroy)
		p.ErrorString, _ = lookup[entities.ErrorStringFunc](h, handle, name, SymbolErrorString)
		return entities.NewPluginRecord(name, handle, create, p), nil
	}

	var x entities.ExtensionLibrary
	x.Operations, _ = lookup[entities.OperationTableFunc](h, handle, name, SymbolOperationTable)
	x.Generators, _ = lookup[entities.GeneratorTableFunc](h, handle, name, SymbolGeneratorTable)
	if x.Operations == nil && x.Generators == nil {
		h.logger().Warn(fmt.Sprintf("'%s' is not a plugin library", path))
		return nil, errors.ErrNotPlugin
	}
	return entities.NewExtensionRecord(name, handle, x), nil
}

// create runs the pre-init hook of a registered plugin. The record stays
// registered whatever the outcome, so teardown releases it.
func (h *Host) create(rec *entities.ModuleRecord) error {
	status, err := h.protect(rec.Name, rec.Create)
	if err != nil {
		h.logger().Error(fmt.Sprintf("Error in pre-initialisation function of module '%s': %v", rec.Name, err))
		return err
	}
	if status == 0 {
		return nil
	}

	he := &errors.HookError{Module: rec.Name, Hook: SymbolCreate, Status: status, Message: rec.ErrorText(status)}
	h.logger().Error(withText(fmt.Sprintf("Error in pre-initialisation function of module '%s'", rec.Name), he.Message))
	return he
}

// release closes a handle that did not become a module.
func (h *Host) release(handle entities.Handle, path string) {
	if err := h.lib.Close(handle); err != nil {
		h.logger().Warn(fmt.Sprintf("could not close library '%s': %v", path, err))
	}
}

// moduleName returns the final component of path. Both '/' and the
// platform separator delimit components.
func moduleName(path string) string {
	i := strings.LastIndexByte(path, '/')
	if os.PathSeparator != '/' {
		if j := strings.LastIndexByte(path, os.PathSeparator); j > i {
			i = j
		}
	}
	return path[i+1:]
}

func withText(msg, text string) string {
	if text == "" {
		return msg
	}
	return msg + ": " + text
}
