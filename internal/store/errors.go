package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate reports a unique-constraint conflict (username or email
	// already taken).
	ErrDuplicate = errors.New("duplicate record")

	// ErrForeignKey reports an insert or update referencing a user or chat
	// id that does not exist.
	ErrForeignKey = errors.New("referential integrity violation")

	// ErrNotFound reports a lookup, update or delete whose target row does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials reports a failed login. It deliberately does not
	// say whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidParticipantError reports a chat-room creation request naming a
// username that does not resolve to a registered user. The offending
// username is carried so callers can report it.
type InvalidParticipantError struct {
	Username string
}

func (e *InvalidParticipantError) Error() string {
	return fmt.Sprintf("invalid participant %q", e.Username)
}
