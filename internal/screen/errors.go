package screen

import (
	"errors"

	"github.com/TWRT/taskflow-client/internal/validation"
)

var (
	ErrNotReady      = errors.New("screen has no data yet")
	ErrNotEditing    = errors.New("not in edit mode")
	ErrSaveInFlight  = errors.New("save already in progress")
	ErrInviteBusy    = errors.New("invite response already in progress")
	ErrInviteUnknown = errors.New("invite not in pending list")
	ErrUnknownStatus = errors.New("status is not one of the project's task statuses")
	ErrUnknownField  = errors.New("unknown field")
	ErrStaleResult   = errors.New("result superseded by a newer request")
	ErrClosed        = errors.New("screen closed")
)

// MsgAuthRequired is shown when the session has no token.
const MsgAuthRequired = "Authentication required"

// ValidationError aborts a save or submit before any request is sent.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}
