package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks field constraints declared in struct tags plus the
// cross-field rules tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %s", formatValidationErrors(verrs))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.UsesPostgres() && c.DatabaseDSN == "" {
		return errors.New("invalid config: DatabaseDSN is required when a postgres backend is selected")
	}
	if c.QueueBackend == BackendPostgres && c.MetadataBackend != BackendPostgres {
		return errors.New("invalid config: postgres queue requires postgres metadata")
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		if e.Param() != "" {
			msg += fmt.Sprintf("%s failed %s=%s", e.Field(), e.Tag(), e.Param())
		} else {
			msg += fmt.Sprintf("%s failed %s", e.Field(), e.Tag())
		}
	}
	return msg
}
