package permission

import "errors"

var (
	// ErrGrantNotFound indicates the requested grant does not exist.
	ErrGrantNotFound = errors.New("grant not found")
	// ErrDuplicateActiveGrant indicates a second active grant for the same
	// (subject, resource) tuple was attempted.
	ErrDuplicateActiveGrant = errors.New("an active grant already exists for this subject and resource")
)
