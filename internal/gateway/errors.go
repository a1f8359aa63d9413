package gateway

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnauthorized is returned when the upstream rejects the credential. The
// session has already been expired by the time callers see it.
var ErrUnauthorized = errors.New("authentication rejected by upstream")

// APIError is a non-2xx or success=false answer from the upstream service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream error (status %d)", e.Status)
	}
	return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
}

// DecodeError is a response body that does not carry the expected
// {success,message,data} envelope. It is deliberately loud: a malformed
// envelope must never degrade into an empty list.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response envelope: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
