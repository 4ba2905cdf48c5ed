package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/reglet-modhost/domain/errors"
)

// LoadModules loads every library in the module directory.
//
// The registry must be empty. An unreadable directory fails the whole scan
// with *errors.DirectoryError. Individual candidates are loaded best-effort:
// a failing candidate never stops the scan. The result is nil when every
// candidate loaded, the out-of-memory error when one occurred, and
// otherwise a soft *errors.ScanError naming the failed candidates, even
// when some of them failed their pre-init hook.
func (h *Host) LoadModules() error {
	if !h.modules.Empty() {
		return errors.ErrRegistryNotEmpty
	}

	dir := h.config.settings.Dir
	entries, err := os.ReadDir(dir)
	if err != nil {
		de := &errors.DirectoryError{Err: err, Dir: dir}
		h.logger().Error(de.Error())
		return de
	}

	suffix := h.config.settings.Suffix
	maxLen := h.config.settings.MaxPathLength

	var (
		failed []string
		memErr error
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !hasSuffixFold(name, suffix) {
			continue
		}

		path := filepath.Join(dir, name)
		if maxLen > 0 && len(path) > maxLen {
			h.logger().Warn(fmt.Sprintf("path name too long, skipping '%s'", name))
			continue
		}

		if _, err := h.Load(path); err != nil {
			failed = append(failed, name)
			if memErr == nil && errors.ClassOf(err) == errors.ClassMemory {
				memErr = err
			}
		}
	}

	if memErr != nil {
		return memErr
	}
	if len(failed) > 0 {
		return &errors.ScanError{Dir: dir, Failed: failed, Class: errors.ClassSoft}
	}
	return nil
}

// hasSuffixFold reports whether name ends in suffix, ignoring case, with
// a non-empty stem.
func hasSuffixFold(name, suffix string) bool {
	if suffix == "" || len(name) <= len(suffix) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(suffix):], suffix)
}
