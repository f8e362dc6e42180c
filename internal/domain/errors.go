package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation        ErrorCode = "validation"
	CodeForbidden         ErrorCode = "forbidden"
	CodeNotFound          ErrorCode = "not_found"
	CodeConflict          ErrorCode = "conflict"
	CodeInsufficientStock ErrorCode = "insufficient_stock"
)

// Error is a business-rule failure the caller can act on. Anything else
// bubbling out of a service is an internal error.
type Error struct {
	Code    ErrorCode
	Message string

	// Warehouse is set only for insufficient-stock failures.
	Warehouse string
}

func (e *Error) Error() string { return e.Message }

func Validationf(format string, args ...any) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(message string) error {
	return &Error{Code: CodeForbidden, Message: message}
}

func NotFound(message string) error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Code: CodeConflict, Message: message}
}

func InsufficientStock(warehouseName string) error {
	return &Error{
		Code:      CodeInsufficientStock,
		Message:   fmt.Sprintf("Not enough stock in %s.", warehouseName),
		Warehouse: warehouseName,
	}
}

// CodeOf returns the business error code, or "" for internal errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
