package models

import "errors"

// Sentinel errors shared across services. HTTP handlers map these to status
// codes; the bot maps them to reply text.
var (
	// ErrNotFound covers both a record that does not exist and a record
	// owned by another account. The two cases must be indistinguishable to
	// the caller.
	ErrNotFound = errors.New("record not found")

	// ErrNothingToUndo is returned by delete-most-recent when the owner has
	// no records. It is a normal outcome, not a failure.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrConflict signals a uniqueness violation, e.g. an email that is
	// already registered.
	ErrConflict = errors.New("conflict")

	// ErrProvider signals the interpretation backend was unreachable or
	// timed out.
	ErrProvider = errors.New("interpretation provider unavailable")

	// ErrSchema signals the interpretation backend returned a payload that
	// does not conform to the draft schema.
	ErrSchema = errors.New("interpretation payload invalid")
)
