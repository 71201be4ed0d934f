// Package validation turns go-playground/validator failures into domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jordanlanch/leadcrm/pkg/domain"
)

// MsgEmptyFields is the message for requests with missing required fields
const MsgEmptyFields = "Please fill in all the fields"

// Validator validates request structs, reporting fields by their json name
type Validator struct {
	v *validator.Validate
}

// New creates a Validator
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. Missing required fields are collected into a single
// validation error; otherwise the first format failure is reported.
func (v *Validator) Struct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError(err.Error())
	}

	var empty []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			empty = append(empty, fe.Field())
		}
	}
	if len(empty) > 0 {
		return domain.NewValidationError(MsgEmptyFields, empty...)
	}
	return domain.NewValidationError(message(verrs[0]), verrs[0].Field())
}

// Email reports whether s is a syntactically valid address
func (v *Validator) Email(s string) bool {
	return v.v.Var(s, "required,email") == nil
}

// Empty returns a validation error listing the blank fields, or nil
func Empty(fields map[string]string, order ...string) error {
	var empty []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			empty = append(empty, name)
		}
	}
	if len(empty) == 0 {
		return nil
	}
	return domain.NewValidationError(MsgEmptyFields, empty...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "Email is not valid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", fe.Field())
	}
}
