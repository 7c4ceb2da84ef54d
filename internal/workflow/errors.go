package workflow

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ValidationError is a field-level input error. It keeps the workflow in the step that collected
// the field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// RejectionError is a user-facing refusal of a submission that passed field validation.
type RejectionError struct {
	Message string `json:"message"`
}

func (e *RejectionError) Error() string {
	return e.Message
}

// ErrWrongStep is returned when an operation is not legal in the current step.
var ErrWrongStep = errors.New("operation not allowed in the current step")

// fromValidation turns an ozzo error map into the first field error, by field name.
func fromValidation(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make([]string, 0, len(errs))
	for field, fieldErr := range errs {
		if fieldErr != nil {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &ValidationError{Field: fields[0], Message: errs[fields[0]].Error()}
}
