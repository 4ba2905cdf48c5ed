package ports

import "github.com/reglet-dev/reglet-modhost/domain/entities"

// ConfigValidator validates host configuration.
type ConfigValidator interface {
	// Validate checks the configuration and returns a *errors.ConfigError
	// naming the first invalid field.
	Validate(cfg *entities.Config) error
}
