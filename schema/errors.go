package schema

import (
	"errors"
	"fmt"
)

// Errors returned by registry operations.
var (
	// ErrNotFound is returned when no schema object matches a lookup by
	// OID or name. Check with errors.Is(err, schema.ErrNotFound).
	ErrNotFound = errors.New("schema object not found")

	// ErrDuplicateIdentity is returned when a registration would bind an
	// OID or a name that already belongs to a different object. The
	// registration is rejected and existing state is untouched.
	ErrDuplicateIdentity = errors.New("duplicate OID or name")

	// ErrLockedObject is returned on any attempt to mutate a registered
	// schema object outside the registries' unlock bracket. This always
	// signals a programming error, never bad schema data.
	ErrLockedObject = errors.New("schema object is locked")

	// ErrMissingOID is returned when an object without an OID is handed
	// to a registry.
	ErrMissingOID = errors.New("schema object has no OID")
)

// ConsistencyError records one relation of a schema object that failed to
// resolve during linking: the referenced OID or name is not registered.
// Consistency errors are recoverable. They are collected into the caller's
// ErrorList and the remaining relations of the same object are still linked,
// so one bad definition never aborts a bulk schema load.
type ConsistencyError struct {
	Source   Object // the object whose relation failed to resolve
	Relation string // definition keyword of the relation, e.g. "SUP" or "SYNTAX"
	Target   string // the OID or name that did not resolve
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s %s: %s refers to unknown %q",
		e.Source.Category(), e.Source.Name(), e.Relation, e.Target)
}

// Unwrap makes consistency errors match errors.Is(err, ErrNotFound).
func (e *ConsistencyError) Unwrap() error { return ErrNotFound }

// ErrorList collects recoverable schema consistency errors during linking
// and bulk loads. The zero value is ready to use.
type ErrorList struct {
	errs []error
}

// Add appends an error to the list. Nil errors are ignored.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Len returns the number of collected errors.
func (l *ErrorList) Len() int { return len(l.errs) }

// Errors returns the collected errors in the order they were added.
func (l *ErrorList) Errors() []error { return l.errs }

// Err returns nil when the list is empty, otherwise a single error joining
// every collected error.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return errors.Join(l.errs...)
}
