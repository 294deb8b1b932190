package store

import "errors"

// Validation and precondition errors returned by store operations. The
// shell renders these directly; everything else is a persistence failure
// wrapped with context.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotAuthorized      = errors.New("not authorized to modify this task")
)
