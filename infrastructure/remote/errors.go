package remote

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/domain/shared"
)

// StatusError is a non-2xx answer (or an envelope with success=false).
// It unwraps to the domain sentinel matching the status.
type StatusError struct {
	Op      string
	Status  int
	Code    string
	Field   string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return shared.ErrInvalidInput
	case e.Status == http.StatusUnauthorized:
		return shared.ErrAuthRequired
	case e.Status == http.StatusForbidden:
		return shared.ErrForbidden
	case e.Status == http.StatusNotFound:
		return shared.ErrNotFound
	case e.Status == http.StatusConflict:
		return shared.ErrConflict
	case e.Status >= http.StatusInternalServerError:
		return shared.ErrNetwork
	}
	return nil
}

func newStatusError(op string, status int, p payload) *StatusError {
	if status < 400 {
		// 2xx with an envelope reporting failure
		status = http.StatusBadRequest
		if code, ok := p.obj["code"].(float64); ok && code >= 400 {
			status = int(code)
		}
	}
	msg := p.message()
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &StatusError{Op: op, Status: status, Code: p.errorCode(), Field: p.field(), Message: msg}
}

func asStatus(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}
