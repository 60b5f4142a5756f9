package notes

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrValidation             = errors.New("validation error")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNotFound               = errors.New("not found")
	ErrAlreadyAmended         = errors.New("note already amended")
	ErrPartialAmendment       = errors.New("partial amendment")
)

// ValidationError indica qué campo falló en una creación.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PartialAmendmentError se devuelve cuando la nota nueva quedó creada pero la
// original no pudo retirarse. El caller reintenta solo el retiro (RetryRetire).
type PartialAmendmentError struct {
	OriginalID  string
	NewRecordID string
	Cause       error
}

func (e *PartialAmendmentError) Error() string {
	return fmt.Sprintf("partial amendment: new note %s created but original %s not retired: %v",
		e.NewRecordID, e.OriginalID, e.Cause)
}

func (e *PartialAmendmentError) Unwrap() error {
	return e.Cause
}

func (e *PartialAmendmentError) Is(target error) bool {
	return target == ErrPartialAmendment
}
