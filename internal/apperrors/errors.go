package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrSourceUnavailable indicates that the external rate source returned no usable rate.
var ErrSourceUnavailable = errors.New("rate source unavailable")

// ErrInvalidAmount indicates a negative or non-finite amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidRate indicates a non-positive or non-finite rate.
var ErrInvalidRate = errors.New("invalid rate")

// ErrIntegrity indicates a stored row that violates the record invariants.
var ErrIntegrity = errors.New("data integrity violation")

// AppError carries an HTTP-ish status code and a message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewSourceUnavailableError creates an AppError that matches ErrSourceUnavailable.
func NewSourceUnavailableError(message string, cause error) *AppError {
	err := ErrSourceUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrSourceUnavailable, cause)
	}
	return &AppError{Code: http.StatusBadGateway, Message: message, Err: err}
}
