package remote

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/debemdeboas/postboard/internal/model"
)

type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// TransportError is any failure of a remote call: connection failure, non-success status or a
// malformed response. Callers do not distinguish between them.
type TransportError struct {
	Op        Op
	ID        model.PostID
	RequestID string

	// Zero when no response was received.
	StatusCode int

	Err error
}

func (e *TransportError) Error() string {
	msg := "remote " + string(e.Op)
	if e.ID != "" {
		msg += " " + string(e.ID)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	return msg + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err carries a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
