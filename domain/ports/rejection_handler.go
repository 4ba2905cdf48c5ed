package ports

import "github.com/reglet-dev/reglet-modhost/domain/entities"

// RejectionHandler is called when the compatibility gate rejects a library.
// Implementations can log, collect metrics, or take other actions.
type RejectionHandler interface {
	// OnReject is called with the module name, the axis that failed
	// ("width" or "version"), and the decoded info of the library.
	OnReject(name string, reason string, library entities.Info)
}
