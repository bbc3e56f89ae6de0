// Package validation wraps go-playground/validator with field issues that
// can be rendered directly in API error payloads.
package validation

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

// Issue describes one failed constraint.
type Issue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// RequestValidationError aggregates every failed constraint of a struct.
type RequestValidationError struct {
	issues []Issue
}

func NewRequestValidationError(issues ...Issue) *RequestValidationError {
	return &RequestValidationError{issues: issues}
}

func (ve *RequestValidationError) Issues() []Issue {
	result := make([]Issue, len(ve.issues))
	copy(result, ve.issues)
	return result
}

func (ve *RequestValidationError) Error() string {
	if len(ve.issues) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.issues))
	for _, issue := range ve.issues {
		messages = append(messages, issue.Message)
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the shared validator. Field names in issues follow
// the json tag of the struct field.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(field.Tag.Get("koanf"), ",", 2)[0]
			}
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct returns nil when s satisfies all of its validate tags.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return NewRequestValidationError(Issue{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		})
	}

	issues := make([]Issue, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		issues = append(issues, Issue{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Param:   fieldErr.Param(),
			Message: translateError(fieldErr),
		})
	}
	return NewRequestValidationError(issues...)
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"datetime": "%s must be an ISO-8601 date-time with offset",
	"url":      "%s must be a valid URL",
	"timezone": "%s must be an IANA time zone",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
