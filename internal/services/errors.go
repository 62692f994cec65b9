package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidCredentials is returned when an email and password pair cannot be authenticated
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
)

// Validation messages shared by the services
const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// ValidationError collects field-level validation messages
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a ValidationError with a single message
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a message for field
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Err returns v when it holds messages, nil otherwise
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(v.Fields[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
