package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal precondition errors. Any of these aborts the whole run and moves
// the state machine to the error terminal state; per-item page failures
// never do.
var (
	// ErrNoSelection is returned when the selection filter produces an
	// empty hierarchy. An empty selection is a caller mistake, not an
	// instruction to import everything.
	ErrNoSelection = errors.New("no items selected for import")

	// ErrMissingDatabase is returned when a non-dry run is started
	// without a target database id.
	ErrMissingDatabase = errors.New("missing target database id")
)

// ValidationError is returned when the mapped page tree fails referential
// validation. Mapper output must always validate, so this indicates an
// internal defect rather than a data problem; it is fatal.
type ValidationError struct {
	// Problems lists each dangling reference or cycle found.
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("mapped page tree failed validation: %s", strings.Join(e.Problems, "; "))
}

// ConnectivityError is returned when authentication or the initial
// connectivity check against the remote API fails. It is fatal: nothing
// was created, so aborting loses no work.
type ConnectivityError struct {
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach remote workspace: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
