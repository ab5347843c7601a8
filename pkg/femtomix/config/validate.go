package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their configuration key instead of the Go name.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// FieldError describes one setting that failed validation.
type FieldError struct {
	// Path is the dotted configuration key, e.g. "mixer.max_buffer_size".
	Path string
	// Tag is the failed rule, e.g. "min".
	Tag string
	// Param is the rule parameter, e.g. "1" for min=1.
	Param string
	// Value is the rejected value.
	Value any
}

func (f FieldError) String() string {
	if f.Param == "" {
		return fmt.Sprintf("%s: failed %s (got %v)", f.Path, f.Tag, f.Value)
	}
	return fmt.Sprintf("%s: failed %s=%s (got %v)", f.Path, f.Tag, f.Param, f.Value)
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid settings"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

// Has reports whether path is among the failed fields.
func (e *ValidationError) Has(path string) bool {
	for _, f := range e.Fields {
		if f.Path == path {
			return true
		}
	}
	return false
}

// Validate checks s against its field rules.
// It returns nil or a *ValidationError.
func (s Settings) Validate() error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate settings: %w", err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		// Namespace is "Settings.mixer.max_buffer_size"; drop the root.
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		out.Fields = append(out.Fields, FieldError{
			Path:  path,
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}
