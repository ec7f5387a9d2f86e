package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/getmockd/talentflow/pkg/chaos"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d >= 0
		})
		_ = v.RegisterValidation("chaosprofile", func(fl validator.FieldLevel) bool {
			return slices.Contains(chaos.ProfileNames(), fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks every field and the chaos settings.
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	if err := c.Chaos.Validate(); err != nil {
		return fmt.Errorf("invalid config: chaos: %w", err)
	}
	if c.Seed.QuestionsPerSection < 0 || c.Seed.Jobs < 0 || c.Seed.Candidates < 0 || c.Seed.Assessments < 0 {
		return errors.New("invalid config: seed counts must not be negative")
	}
	return nil
}

// fieldMessage renders a validation failure with its dotted config key.
func fieldMessage(fe validator.FieldError) string {
	// Namespace is "Config.server.addr"; drop the root type name.
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "duration":
		return fmt.Sprintf("%s must be a non-negative duration like \"5s\", got %q", key, fe.Value())
	case "chaosprofile":
		return fmt.Sprintf("%s: unknown profile %q (available: %s)", key, fe.Value(), strings.Join(chaos.ProfileNames(), ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", key, fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port, got %q", key, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}
