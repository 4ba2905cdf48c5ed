// Package ports defines interfaces for the host's external collaborators.
// The loading core depends on these abstractions only; infrastructure
// adapters (Go plugins, wazero, the OS environment, YAML files) implement them.
package ports
