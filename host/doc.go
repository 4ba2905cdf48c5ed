// Package host loads runtime-pluggable libraries ("modules") into a host
// instance and drives their lifecycle.
//
// A Host discovers candidate libraries in a module directory or from an
// explicit comma-separated list, checks their ABI compatibility, registers
// each distinct library once, and runs a two-phase initialization followed
// by an ordered, all-or-nothing teardown.
//
// A module is either a generic plugin, recognized by its ModuleCreate
// export, or an extension library exporting OperationTable and/or
// GeneratorTable. Libraries are opened through a ports.Library primitive;
// see the infrastructure/native and infrastructure/wazero packages.
//
// A Host is not safe for concurrent use.
package host
