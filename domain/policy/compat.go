// Package policy holds the compatibility gate applied to candidate libraries
// before they are accepted as modules.
package policy

import (
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// Rejection reasons passed to a ports.RejectionHandler.
const (
	ReasonWidth   = string(errors.ReasonWidth)
	ReasonVersion = string(errors.ReasonVersion)
)

// compatConfig holds configuration for the Compatibility gate.
type compatConfig struct {
	handler ports.RejectionHandler // Handler invoked on rejections
}

func defaultCompatConfig() compatConfig {
	return compatConfig{
		handler: &NopRejectionHandler{},
	}
}

// CompatibilityOption configures the Compatibility gate.
type CompatibilityOption func(*compatConfig)

// WithRejectionHandler sets the rejection handler.
func WithRejectionHandler(h ports.RejectionHandler) CompatibilityOption {
	return func(c *compatConfig) {
		if h != nil {
			c.handler = h
		}
	}
}

// Compatibility decides whether a library built for one ABI can be loaded
// by a host offering another. It is stateless and safe to share.
type Compatibility struct {
	config compatConfig
	host   entities.Info
}

// NewCompatibility creates a gate for a host with the given width and
// API version.
func NewCompatibility(host entities.Info, opts ...CompatibilityOption) *Compatibility {
	cfg := defaultCompatConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Compatibility{config: cfg, host: host}
}

// Host returns the ABI the gate admits.
func (c *Compatibility) Host() entities.Info {
	return c.host
}

// Check validates a packed info word exported by the library called name.
// It returns nil when the library is compatible and a
// *errors.CompatibilityError otherwise.
//
// A zero width accepts any host width. A word without version bits accepts
// any host version. A library is version-compatible when its major version
// equals the host's and its minor version does not exceed the host's.
func (c *Compatibility) Check(name string, info int) error {
	lib := entities.ParseInfo(info)

	if lib.Width != 0 && lib.Width != c.host.Width {
		return c.reject(name, errors.ReasonWidth, lib)
	}

	if entities.HasVersion(info) {
		if lib.Major != c.host.Major || lib.Minor > c.host.Minor {
			return c.reject(name, errors.ReasonVersion, lib)
		}
	}

	return nil
}

func (c *Compatibility) reject(name string, reason errors.CompatibilityReason, lib entities.Info) error {
	c.config.handler.OnReject(name, string(reason), lib)
	return &errors.CompatibilityError{Reason: reason, Library: lib, Host: c.host}
}
