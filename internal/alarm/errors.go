package alarm

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("alarm: not found")

// PersistenceError is returned after an in-memory change was applied but
// could not be written out. The in-memory state stays authoritative and the
// next successful save catches the file up.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("alarm: persist after %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
