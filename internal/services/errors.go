package services

import "errors"

// Domain error taxonomy. Handlers translate these at the boundary; nothing
// here ever crashes a request.
var (
	ErrDuplicateAddress     = errors.New("address already registered")
	ErrAdminAlreadyExists   = errors.New("an admin account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired recovery code")
	ErrWeakPassword         = errors.New("weak password")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateBatchName   = errors.New("batch name already taken")
	ErrFileTypeNotAllowed   = errors.New("file type not allowed")
)
