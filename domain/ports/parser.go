package ports

import "github.com/reglet-dev/reglet-modhost/domain/entities"

// ConfigParser parses a raw configuration document.
type ConfigParser interface {
	// Parse unmarshals bytes into a Config. Fields absent from the
	// document keep the values already present in base.
	Parse(data []byte, base entities.Config) (*entities.Config, error)
}
