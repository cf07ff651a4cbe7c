package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field returns an error instance that wraps the original error with
// additional information. It returns nil if provided error is nil.
// Use this function to create an error instance describing a field error.
//
// Use Go naming for the field name. For example, Title or FundAddress. When
// the error is for a nested field, use dot notation to construct the path,
// for example Config.Budget. When the path includes an iterable, use the
// element index starting with 0 as the name, for example Addresses.2
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{
		parent: err,
		field:  fieldName,
		desc:   description,
	}
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

// Cause implements the causer interface.
func (err *fieldError) Cause() error {
	return err.parent
}

// Field returns the name of the field this error was created for.
func (err *fieldError) Field() string {
	return err.field
}

// FieldName returns the name of the field given error was created for, or
// an empty string if the error is not a field error.
func FieldName(err error) string {
	for err != nil {
		if f, ok := err.(interface{ Field() string }); ok {
			return f.Field()
		}
		c, ok := err.(causer)
		if !ok {
			return ""
		}
		err = c.Cause()
	}
	return ""
}
