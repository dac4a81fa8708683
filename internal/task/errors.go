package task

import "errors"

var (
	// ErrValidation reports an empty or malformed text or date.
	ErrValidation = errors.New("invalid task")

	// ErrNotFound reports a mutation referencing an id the store does not hold.
	ErrNotFound = errors.New("task not found")

	// ErrCorruptData reports stored data that cannot be decoded.
	ErrCorruptData = errors.New("stored tasks are corrupt")
)

// PersistenceError reports that a mutation was applied in memory but could
// not be written to storage. The in-memory state stays authoritative.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist after " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
