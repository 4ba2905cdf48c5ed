// Package validation checks host configuration with struct tags.
package validation

import (
	stdErrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
)

// validate is a package-level singleton for better performance.
// Creating a new validator on each call is expensive; reusing is recommended.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ConfigValidator implements ports.ConfigValidator with go-playground/validator.
type ConfigValidator struct{}

// NewConfigValidator creates a new validator.
func NewConfigValidator() ports.ConfigValidator {
	return &ConfigValidator{}
}

// Validate checks the configuration against its `validate` tags.
func (v *ConfigValidator) Validate(cfg *entities.Config) error {
	if cfg == nil {
		return &errors.ConfigError{Err: fmt.Errorf("configuration is nil")}
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &errors.ConfigError{
			Field: fe.Field(),
			Err:   fmt.Errorf("value %v fails %q", fe.Value(), tagDescription(fe)),
		}
	}
	return &errors.ConfigError{Err: err}
}

func tagDescription(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
