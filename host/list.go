package host

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reglet-dev/reglet-modhost/domain/errors"
)

// ListSeparator separates paths in an explicit library list.
const ListSeparator = ","

// LoadExternals loads a comma-separated list of libraries that must load.
//
// Paths are sorted and duplicates and empty entries are dropped, so each
// distinct path is attempted once, in lexicographic order. A soft failure
// skips the path. A fatal failure calls the host's Terminator; if it
// returns, LoadExternals returns the failure.
func (h *Host) LoadExternals(list string) error {
	if list == "" {
		return nil
	}
	h.logger().Info("Loading command-line libraries:")

	paths := strings.Split(list, ListSeparator)
	slices.Sort(paths)

	prev := ""
	for _, path := range paths {
		if path == "" || path == prev {
			continue
		}
		prev = path

		if _, err := h.Load(path); err != nil {
			if !errors.IsFatal(err) {
				continue
			}
			msg := fmt.Sprintf(" *** error loading '%s'", path)
			h.config.terminate(msg, err)
			return fmt.Errorf("error loading '%s': %w", path, err)
		}
		h.logger().Info("  " + path)
	}
	return nil
}

// LoadPending loads the list configured with WithLibraries. The list is
// consumed: later calls do nothing.
func (h *Host) LoadPending() error {
	list := h.pending
	h.pending = ""
	return h.LoadExternals(list)
}
