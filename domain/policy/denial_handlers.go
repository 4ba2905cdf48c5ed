package policy

import (
	"fmt"
	"os"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.RejectionHandler = (*StderrRejectionHandler)(nil)
var _ ports.RejectionHandler = (*NopRejectionHandler)(nil)

// StderrRejectionHandler writes rejections to stderr.
type StderrRejectionHandler struct{}

func (h *StderrRejectionHandler) OnReject(name string, reason string, _ entities.Info) {
	fmt.Fprintf(os.Stderr, "WARNING: %s\n", RejectionMessage(name, reason))
}

// NopRejectionHandler does nothing.
type NopRejectionHandler struct{}

func (h *NopRejectionHandler) OnReject(string, string, entities.Info) {}

// RejectionMessage renders the operator-facing text for a rejection.
func RejectionMessage(name, reason string) string {
	if reason == ReasonWidth {
		return fmt.Sprintf("not loading '%s' (uses incompatible floating point width)", name)
	}
	return fmt.Sprintf("not loading '%s' (incompatible with this API version)", name)
}
