package notestore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the target note does not exist.
var ErrNotFound = errors.New("notestore: note not found")

// CodeNoteInEdit is the remote error code for a note that is currently open
// for editing elsewhere.
const CodeNoteInEdit = "note_in_edit"

// RemoteError is a failure reported by the remote storage service. Code and
// Message are surfaced verbatim; Hint carries a human-readable addition for
// known conditions.
type RemoteError struct {
	Code    string
	Message string
	Hint    string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return fmt.Sprintf("notestore: %s", msg)
}

// newRemoteError builds a RemoteError, augmenting known conditions with a
// hint while keeping the original message intact.
func newRemoteError(code, message string) *RemoteError {
	e := &RemoteError{Code: code, Message: message}
	if code == CodeNoteInEdit {
		e.Hint = "the note is open for editing elsewhere; close it there and retry"
	}
	return e
}
