/*
Package shared holds the error taxonomy, event bus and record coercion helpers
used by every storefront subdomain.

Errors:
 1. Sentinels classify failures for errors.Is().
 2. DomainError carries entity, optional field and message, plus the call stack
    captured when it was created (formatted only when logged).
 3. Nothing here knows about HTTP; status mapping lives in pkg/errors and the API edge.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	// ErrNotFound resource not found
	ErrNotFound = errors.New("not found")

	// ErrConflict resource conflict (duplicate registration, concurrent modification)
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized credentials rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAuthRequired a mutating intent was attempted without a signed-in user
	ErrAuthRequired = errors.New("please sign in")

	// ErrForbidden authenticated but not allowed
	ErrForbidden = errors.New("forbidden")

	// ErrNetwork the remote commerce API could not be reached
	ErrNetwork = errors.New("network error")

	// ErrOrderSubmission the backend rejected an order
	ErrOrderSubmission = errors.New("order submission failed")

	// ErrMalformedData a cached or remote record broke an entity invariant
	ErrMalformedData = errors.New("malformed data")

	// ErrIntentPending the same intent is still in flight
	ErrIntentPending = errors.New("operation already in progress")
)

// ============================================================================
// Domain Error
// ============================================================================

// DomainError Domain error carrying business context and the creation stack
type DomainError struct {
	// Err sentinel used by errors.Is()
	Err error

	// Cause optional underlying error (transport failure, decode error)
	Cause error

	// Entity name of the entity involved ("cart", "order", "user")
	Entity string

	// Message human readable description
	Message string

	// Field optional input field the error refers to
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Stack formats the captured stack on demand
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ============================================================================
// Stack helpers
// ============================================================================

// CaptureStack captures the current call stack.
// skip: frames to skip (usually 3: Callers, CaptureStack, NewXxxError)
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders frames, skipping runtime internals, at most 10 frames
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

func newDomainError(sentinel error, entity, field, message string, cause error) *DomainError {
	return &DomainError{
		Err:     sentinel,
		Cause:   cause,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(4),
	}
}

func NewNotFoundError(entity string) error {
	return newDomainError(ErrNotFound, entity, "", entity+" not found", nil)
}

func NewConflictError(entity, message string) error {
	return newDomainError(ErrConflict, entity, "", message, nil)
}

// NewDuplicateError is a conflict on a unique field, such as a taken username.
func NewDuplicateError(entity, field, message string) error {
	return newDomainError(ErrConflict, entity, field, message, nil)
}

// NewValidationError reports a field-level input problem.
func NewValidationError(entity, field, reason string) error {
	return newDomainError(ErrInvalidInput, entity, field, reason, nil)
}

func NewForbiddenError(entity, reason string) error {
	return newDomainError(ErrForbidden, entity, "", reason, nil)
}

// NewAuthRequiredError is returned when action needs a signed-in user.
func NewAuthRequiredError(action string) error {
	return newDomainError(ErrAuthRequired, "session", "", "please sign in to "+action, nil)
}

// NewAuthError reports rejected credentials. cause is set when the backend
// could not be reached at all.
func NewAuthError(field, reason string, cause error) error {
	return newDomainError(ErrUnauthorized, "session", field, reason, cause)
}

// NewNetworkError wraps a transport failure of operation op.
func NewNetworkError(op string, cause error) error {
	return newDomainError(ErrNetwork, "remote", "", op+": backend unreachable", cause)
}

// NewOrderSubmissionError carries the backend's rejection message verbatim.
func NewOrderSubmissionError(message string, cause error) error {
	if message == "" {
		message = ErrOrderSubmission.Error()
	}
	return newDomainError(ErrOrderSubmission, "order", "", message, cause)
}

// NewMalformedDataError describes a record dropped at ingestion.
func NewMalformedDataError(entity, reason string) error {
	return newDomainError(ErrMalformedData, entity, "", entity+": "+reason, nil)
}

// NewIntentPendingError signals a duplicate submission of intent.
func NewIntentPendingError(intent string) error {
	return newDomainError(ErrIntentPending, "session", "", intent+" is already in progress", nil)
}

// FieldOf returns the field a validation or auth error refers to, if any.
func FieldOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}

// ============================================================================
// Stacker
// ============================================================================

// Stacker errors able to report a stack
type Stacker interface {
	Stack() []string
}
