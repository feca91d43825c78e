package domain

import "errors"

// Membership errors
var (
	ErrLobbyNotFound   = errors.New("lobby not found")
	ErrAlreadyMember   = errors.New("user is already a member of this lobby")
	ErrNotMember       = errors.New("user is not a member of this lobby")
	ErrNotLobbyCreator = errors.New("only the lobby creator can perform this action")
	ErrInvalidState    = errors.New("lobby does not accept this action in its current state")
)

// Lobby creation errors
var (
	ErrInvalidInput     = errors.New("invalid lobby input")
	ErrFacilityNotFound = errors.New("facility not found")
)

// Infrastructure errors
var (
	// ErrConflict signals concurrency contention on the lobby's atomic
	// unit. Safe to retry after re-checking membership.
	ErrConflict = errors.New("conflicting concurrent update, retry")
	// ErrDependencyFailure signals a failed collaborator call (facility
	// price lookup or booking store write). The enclosing operation is
	// rolled back in full.
	ErrDependencyFailure = errors.New("downstream dependency failed")
)
