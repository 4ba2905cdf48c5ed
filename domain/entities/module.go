package entities

import "fmt"

// Handle is an opaque reference to an open library.
// Handles must be comparable: the registry deduplicates libraries by handle
// identity, so opening the same library twice has to yield an equal handle.
type Handle any

// Kind identifies the interface shape a module exports.
type Kind int

const (
	// KindGenericPlugin marks a module exporting lifecycle hooks.
	KindGenericPlugin Kind = iota + 1
	// KindExtensionLibrary marks a module exporting operation/generator tables.
	KindExtensionLibrary
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindGenericPlugin:
		return "plugin"
	case KindExtensionLibrary:
		return "extension"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Interface is the capability set contributed by a module.
// It is either *GenericPlugin or *ExtensionLibrary.
type Interface interface {
	Kind() Kind
	sealed()
}

// GenericPlugin is the lifecycle interface. Every hook is optional.
type GenericPlugin struct {
	Init        HookFunc
	Destroy     HookFunc
	ErrorString ErrorStringFunc
}

// Kind implements Interface.
func (*GenericPlugin) Kind() Kind { return KindGenericPlugin }

func (*GenericPlugin) sealed() {}

// ExtensionLibrary is the table interface. At least one provider is set
// for a library to be accepted as a module.
type ExtensionLibrary struct {
	Operations OperationTableFunc
	Generators GeneratorTableFunc
}

// Kind implements Interface.
func (*ExtensionLibrary) Kind() Kind { return KindExtensionLibrary }

func (*ExtensionLibrary) sealed() {}

// ModuleRecord describes one accepted library.
// The record owns Handle; the registry owns the record.
type ModuleRecord struct {
	// Name is the final path component of the path the library was loaded from.
	Name string

	// Handle is the open library. It is closed exactly once, at teardown.
	Handle Handle

	// Create is the pre-initialization hook. It is non-nil only for
	// generic plugins; its presence is what selected that shape.
	Create HookFunc

	// Interface is fixed at construction.
	Interface Interface
}

// NewPluginRecord creates a record for a generic plugin.
func NewPluginRecord(name string, h Handle, create HookFunc, p GenericPlugin) *ModuleRecord {
	return &ModuleRecord{Name: name, Handle: h, Create: create, Interface: &p}
}

// NewExtensionRecord creates a record for an extension library.
func NewExtensionRecord(name string, h Handle, x ExtensionLibrary) *ModuleRecord {
	return &ModuleRecord{Name: name, Handle: h, Interface: &x}
}

// Kind returns the interface shape of the module.
func (m *ModuleRecord) Kind() Kind {
	return m.Interface.Kind()
}

// Plugin returns the lifecycle interface when the module is a generic plugin.
func (m *ModuleRecord) Plugin() (*GenericPlugin, bool) {
	p, ok := m.Interface.(*GenericPlugin)
	return p, ok
}

// Extension returns the table interface when the module is an extension library.
func (m *ModuleRecord) Extension() (*ExtensionLibrary, bool) {
	x, ok := m.Interface.(*ExtensionLibrary)
	return x, ok
}

// ErrorText converts a hook status to the module's own message.
// It returns "" when the module does not export an error-string function.
func (m *ModuleRecord) ErrorText(status int) string {
	p, ok := m.Plugin()
	if !ok || p.ErrorString == nil {
		return ""
	}
	return p.ErrorString(status)
}
