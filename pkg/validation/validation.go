// Package validation wraps go-playground/validator and reports failures as a
// flat list of field errors that handlers can render as JSON.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError a single failed rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned by Struct when at least one rule fails.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Err returns nil for an empty list
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names in errors come from the
// `field` tag, falling back to the json tag, the toml tag and then to the Go field name.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("field"); name != "" {
				return name
			}
			for _, key := range []string{"json", "toml"} {
				name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
				if name != "-" && name != "" {
					return name
				}
			}
			return f.Name
		})
	})
	return instance
}

// Struct validates s and converts validator errors to Errors.
func Struct(s interface{}) Errors {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "", Message: err.Error()}}
	}

	result := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return result
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "hostname_port":
		return "must be host:port"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
