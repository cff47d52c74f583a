package errors

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/domain/checkout"
	"storefront/domain/shared"
)

// ErrorCode machine readable error code carried in API envelopes
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Storefront codes
	CodeAuthRequired    ErrorCode = "AUTH_REQUIRED"
	CodeAuth            ErrorCode = "AUTH_ERROR"
	CodeNetwork         ErrorCode = "NETWORK_ERROR"
	CodeOrderSubmission ErrorCode = "ORDER_SUBMISSION_ERROR"
	CodeInvalidDiscount ErrorCode = "INVALID_DISCOUNT"
	CodeMalformedData   ErrorCode = "MALFORMED_DATA"
	CodeOutOfStock      ErrorCode = "OUT_OF_STOCK"
)

// AppError application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the matching HTTP status
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeInvalidDiscount, CodeMalformedData:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeAuth, CodeAuthRequired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeOrderSubmission, CodeOutOfStock:
		return http.StatusUnprocessableEntity
	case CodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps err with a code
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

// Validation reports a bad input field
func Validation(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Field: field, Message: message}
}

// OutOfStock names the product whose stock cannot cover the request
func OutOfStock(product string) *AppError {
	return New(CodeOutOfStock, "insufficient stock for "+product)
}

// Is checks the code of err
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError converts any error, defaulting to an internal error
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "internal server error")
}

// MapDomainError maps domain sentinels to application errors
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	var de *shared.DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	field := shared.FieldOf(err)

	switch {
	case errors.Is(err, shared.ErrAuthRequired):
		return Wrap(err, CodeAuthRequired, msg)
	case errors.Is(err, shared.ErrUnauthorized):
		return &AppError{Code: CodeAuth, Field: field, Message: msg, Err: err}
	case errors.Is(err, shared.ErrInvalidInput):
		return &AppError{Code: CodeValidation, Field: field, Message: msg, Err: err}
	case errors.Is(err, checkout.ErrInvalidDiscount):
		return Wrap(err, CodeInvalidDiscount, "invalid discount code")
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrConflict):
		return &AppError{Code: CodeConflict, Field: field, Message: msg, Err: err}
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, msg)
	case errors.Is(err, shared.ErrOrderSubmission):
		return Wrap(err, CodeOrderSubmission, msg)
	case errors.Is(err, shared.ErrNetwork):
		return Wrap(err, CodeNetwork, msg)
	case errors.Is(err, shared.ErrMalformedData):
		return Wrap(err, CodeMalformedData, msg)
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
