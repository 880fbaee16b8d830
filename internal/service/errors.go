package service

import (
	"errors"
	"fmt"
)

// Validation causes
var (
	ErrNoStationMatch  = errors.New("position does not match any station")
	ErrUserNotFound    = errors.New("user not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrBicycleNotFound = errors.New("bicycle not found")
	ErrBoardNotFound   = errors.New("sensor board not found")
	ErrTripClosed      = errors.New("trip already closed")
	ErrNoReadings      = errors.New("no readings available")
	ErrEmailTaken      = errors.New("email already in use")
	ErrInvalidInput    = errors.New("invalid input")
)

// ValidationError means caller-supplied input failed a precondition.
// Message is safe to show to an end user.
type ValidationError struct {
	Op      string
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}
	return e.Op + ": " + msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// InfrastructureError means storage or another downstream dependency failed.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInfrastructure reports whether err carries an InfrastructureError
func IsInfrastructure(err error) bool {
	var ie *InfrastructureError
	return errors.As(err, &ie)
}

func invalid(op string, cause error, message string) error {
	return &ValidationError{Op: op, Err: cause, Message: message}
}

// classify keeps validation failures as they are and wraps everything else
// as an infrastructure failure of op.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return ie
	}
	return &InfrastructureError{Op: op, Err: err}
}

func errorKind(err error) string {
	if IsValidation(err) {
		return "validation"
	}
	return "infrastructure"
}
