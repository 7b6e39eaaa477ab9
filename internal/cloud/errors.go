package cloud

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("cloud: resource not found")
	ErrProvider    = errors.New("cloud: provider error")
	ErrUnsupported = errors.New("cloud: operation not supported by driver")
)

// Error wraps a failed backend call. It always matches ErrProvider, and also matches
// whatever Err matches, ErrNotFound included.
type Error struct {
	Op       string
	Node     string
	Resource string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cloud %s %s on %s: %v", e.Op, e.Resource, e.Node, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrProvider, e.Err}
}

// Wrap returns nil for a nil err.
func Wrap(op, node, resource string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Op: op, Node: node, Resource: resource, Err: err}
}

// NotFound builds the error a driver returns when resource does not exist.
func NotFound(op, node, resource string) error {
	return &Error{Op: op, Node: node, Resource: resource, Err: ErrNotFound}
}

// IgnoreNotFound maps a not-found error to nil.
func IgnoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
