package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Text Model Errors.

	// ErrNoTextModel indicates the owner has no text model attached.
	ErrNoTextModel = errors.New("no text model attached")

	// ErrIncompatibleModels indicates text models cannot be combined because
	// their internal structure differs (compiled vs. uncompiled, state size).
	ErrIncompatibleModels = errors.New("incompatible text models")

	// ErrInvalidModel indicates a payload is not a valid serialized model.
	ErrInvalidModel = errors.New("invalid text model payload")

	// ErrCorpus matches every CorpusError via errors.Is.
	ErrCorpus = errors.New("corpus error")
)

// CorpusError is returned when building or combining text models fails
// during an orchestrated update. It always wraps the originating cause.
// Nothing is persisted when a CorpusError is returned.
type CorpusError struct {
	// Op names the orchestrated operation (e.g. "add quote", "rebuild group").
	Op string

	// Owner identifies the model owner being updated.
	Owner Owner

	// Err is the underlying cause.
	Err error
}

// NewCorpusError wraps err as a CorpusError.
func NewCorpusError(op string, owner Owner, err error) *CorpusError {
	return &CorpusError{Op: op, Owner: owner, Err: err}
}

// Error implements error.
func (e *CorpusError) Error() string {
	return fmt.Sprintf("corpus error: %s %s: %v", e.Op, e.Owner, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CorpusError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCorpus.
func (e *CorpusError) Is(target error) bool {
	return target == ErrCorpus
}
