package errors

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a field-specific validation error
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validator accumulates validation errors and converts them to an AppError
type Validator struct {
	errors []ValidationError
}

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// getStructValidator returns the shared tag validator. It reports JSON field
// names so messages match the wire payloads.
func getStructValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, rule, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Rule:    rule,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *Validator) GetErrors() []ValidationError {
	return v.errors
}

// Fields returns the names of the fields that failed validation
func (v *Validator) Fields() []string {
	fields := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		fields = append(fields, err.Field)
	}
	return fields
}

// ToAppError converts validation errors to an AppError
func (v *Validator) ToAppError() *AppError {
	if !v.HasErrors() {
		return nil
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}

	appErr := NewError(ErrValidationFailed, "Validation failed")
	appErr.Details = strings.Join(messages, "; ")
	_ = appErr.WithContext("validation_errors", v.errors)

	return appErr
}

// RequiredField validates that a field is not empty
func (v *Validator) RequiredField(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "required", "Field is required")
	}
	return v
}

// ValidateURL validates URL format
func (v *Validator) ValidateURL(field, url string) *Validator {
	if url == "" {
		v.AddError(field, "required", "Field is required")
		return v
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		v.AddError(field, "url_format", "URL must start with http:// or https://")
	}
	return v
}

// ValidatePositiveInt validates that a value is a positive integer
func (v *Validator) ValidatePositiveInt(field string, value int) *Validator {
	if value <= 0 {
		v.AddError(field, "positive_integer", "Must be a positive integer")
	}
	return v
}

// ValidateStruct runs the struct's `validate` tags and records each failure
func (v *Validator) ValidateStruct(s interface{}) *Validator {
	err := getStructValidator().Struct(s)
	if err == nil {
		return v
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		v.AddError("struct", "invalid", err.Error())
		return v
	}

	for _, fe := range validationErrs {
		v.AddError(fe.Field(), fe.Tag(), describeTag(fe))
	}
	return v
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	default:
		return fmt.Sprintf("Failed '%s' rule", fe.Tag())
	}
}
