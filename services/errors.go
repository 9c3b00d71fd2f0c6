package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Handlers translate these into
// stable machine-readable codes; raw driver errors never reach a response.
var (
	ErrInvalidID          = errors.New("invalid identifier format")
	ErrIssueNotFound      = errors.New("issue not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminNotFound      = errors.New("admin account not found")
	ErrAlreadyUpvoted     = errors.New("issue already upvoted by this user")
	ErrNotUpvoted         = errors.New("issue not upvoted by this user")
	ErrUndoWindowExpired  = errors.New("upvote undo window has expired")
	ErrInvalidStatus      = errors.New("invalid issue status")
	ErrAdminInactive      = errors.New("admin account is inactive")
	ErrPermissionDenied   = errors.New("admin lacks the required permission")
	ErrOutOfRegion        = errors.New("issue is outside the admin's region")
	ErrStorageUnavailable = errors.New("document store unavailable")
)
