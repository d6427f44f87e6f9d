// lifecycle/errors.go
package lifecycle

import "fmt"

// The four error kinds surfaced to callers. None are retried here; transient
// store failures are re-invoked by the user.

// ValidationError reports a missing/malformed caller-supplied field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports an operation referencing an id with no current
// document (soft-deleted assets count as not found outside the bin).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }

// StorageError wraps a failed store call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// AuthorizationError reports a capability the actor lacks.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }
