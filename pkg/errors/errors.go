package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrBarcodeRender   = errors.New("barcode render failed")
	ErrTransport       = errors.New("transport delivery failed")
	ErrInternal        = errors.New("internal error")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a product query that matched nothing.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %q not found", resource, key),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidQuantity creates a 400 error for a bulk quantity outside the
// allowed bounds. The bounds are part of the message so the user sees them.
func InvalidQuantity(qty, min, max int) *AppError {
	return &AppError{
		Code:    "INVALID_QUANTITY",
		Message: fmt.Sprintf("quantity %d out of bounds, must be between %d and %d", qty, min, max),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidQuantity,
	}
}

// BarcodeRender creates a 500 error carrying the failing symbology and code.
func BarcodeRender(symbology, code string, err error) *AppError {
	return &AppError{
		Code:    "BARCODE_RENDER_FAILED",
		Message: fmt.Sprintf("cannot encode %q as %s", code, symbology),
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrBarcodeRender, err),
	}
}

// Transport creates an error for a failed chat delivery.
func Transport(err error) *AppError {
	return &AppError{
		Code:    "TRANSPORT_FAILED",
		Message: "message delivery failed",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrTransport, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
