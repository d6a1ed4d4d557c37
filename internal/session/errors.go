package session

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a submission arrives while another one for the
	// same drawing is still in flight.
	ErrBusy = errors.New("drawing is busy with another request")

	// ErrStaleResponse marks a generation result that arrived after the request
	// was abandoned. It is never shown to the user.
	ErrStaleResponse = errors.New("stale generation response dropped")

	ErrIdentityRequired = errors.New("sign in to save drawings")
	ErrNotFound         = errors.New("drawing not found")
	ErrForbidden        = errors.New("drawing belongs to another user")
	ErrEmptyPrompt      = errors.New("prompt cannot be empty")
	ErrCanvasTooLarge   = errors.New("canvas exceeds the maximum size")
)

// PersistenceError wraps a store failure. The in-memory drawing is kept as is.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
