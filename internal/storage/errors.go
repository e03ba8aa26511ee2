// ABOUTME: Error taxonomy for the storage layer.
// ABOUTME: Schema, write, and read failures are typed; the rest are sentinels.
package storage

import (
	"errors"

	"github.com/harperreed/liftlog/internal/models"
)

var (
	// ErrNotFound is returned when a row addressed by id or name does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTemplate is returned for empty names or non-positive sets/reps.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrInvalidSession is returned when a session fails validation.
	ErrInvalidSession = models.ErrInvalidSession

	// ErrResetWouldDiscard is returned by ResetTemplates when user-created
	// templates exist and the caller did not allow data loss.
	ErrResetWouldDiscard = errors.New("template reset would discard user-created templates")

	// ErrDatabaseLocked is returned by Open when another process holds the database.
	ErrDatabaseLocked = errors.New("database is locked by another liftlog process")
)

// SchemaError reports a failed table or column operation. The install
// cannot be trusted for writes until it is resolved.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string { return "schema: " + e.Op + ": " + e.Err.Error() }
func (e *SchemaError) Unwrap() error { return e.Err }

// WriteError reports a write that did not complete. Nothing from the
// failed operation is visible to readers.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string { return "write: " + e.Op + ": " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// ReadError reports a failed query.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string { return "read: " + e.Op + ": " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
