package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConfigFile is returned when no source yields a configuration path.
	ErrNoConfigFile = errors.New("no configuration file specified")
	// ErrEnvNotUTF8 is returned when WEBSITE_CONFIG holds invalid UTF-8.
	ErrEnvNotUTF8 = errors.New("environment variable is not valid UTF-8")
	// ErrUnreadable indicates the configuration file is missing or unreadable.
	ErrUnreadable = errors.New("configuration file not found or unreadable")
	// ErrParse indicates the configuration file is not well-formed.
	ErrParse = errors.New("configuration file could not be parsed")
	// ErrInvalidField indicates a missing, mistyped or malformed field.
	ErrInvalidField = errors.New("missing or invalid configuration field")
)

// FieldError reports one invalid configuration field. It unwraps to
// ErrInvalidField.
type FieldError struct {
	// Field is the dotted path of the field, e.g. "site.base". It is empty
	// when the decoder could not tell which field failed.
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidField, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidField, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

func missingField(field string) error {
	return &FieldError{Field: field, Reason: "required field is missing"}
}
