// Package console holds the screen logic of the staff console: one generic
// list controller instantiated per resource, transient notifications,
// confirmation of destructive actions, form drafts and permission-aware
// navigation. It has no terminal code; the tui package renders it.
package console

import "errors"

var (
	// ErrFormClosed is returned by form operations when no form is open.
	ErrFormClosed = errors.New("console: no form is open")
	// ErrSubmitInFlight is returned by Submit while the same form is being sent.
	ErrSubmitInFlight = errors.New("console: form is already being submitted")
	// ErrUnknownField is returned by SetField for a name the resource does not define.
	ErrUnknownField = errors.New("console: unknown field")
	// ErrUnknownRecord is returned when an id is not in the current list.
	ErrUnknownRecord = errors.New("console: record not in list")
	// ErrUnknownDestination is returned by Resolve for keys outside the menu.
	ErrUnknownDestination = errors.New("console: unknown destination")
	// ErrValidation wraps every draft validation failure.
	ErrValidation = errors.New("console: invalid input")
)

// ValidationError is a draft that cannot become a record. Message is shown
// to the user verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
