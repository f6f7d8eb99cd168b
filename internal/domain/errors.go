package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport means the request to the activities server did not complete.
	ErrTransport = errors.New("activities server unreachable")
	// ErrMalformedResponse means the server answered with an unexpected body.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidInput means the caller supplied an unusable argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfirmationRequired means a removal was attempted without a valid confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// RejectionError is a well-formed non-success answer from the activities server.
type RejectionError struct {
	Status  int
	Detail  string
	Message string
}

func (e *RejectionError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("rejected with status %d: %s", e.Status, e.Detail)
	case e.Message != "":
		return fmt.Sprintf("rejected with status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("rejected with status %d", e.Status)
	}
}

// AsRejection unwraps err into a *RejectionError.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
