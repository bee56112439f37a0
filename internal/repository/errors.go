// Package repository defines error types reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios: ErrForbidden means the caller does not own the resource,
// ErrConflict means dependent records block the operation (e.g. deleting
// a shift that students still reference).
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because
// of conflicting state, such as removing a shift students are assigned
// to, or shrinking a library below its highest occupied seat. Handlers
// translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKRestrict reports whether err is a MySQL foreign-key restriction
// error (1451), raised when dependent rows block a delete.
func isFKRestrict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
