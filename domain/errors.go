package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidJsonFormat   = errors.New("invalid JSON format")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidChainId      = errors.New("invalid chain id")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidRequestId = errors.New("Invalid request id")

	// permission engine errors. every rejected precondition surfaces one of
	// these, and a failed operation leaves no partial state behind.

	// ErrUnauthorized is returned when the caller lacks admin rights for an
	// admin-only operation
	ErrUnauthorized = errors.New("requires admin privilege")
	// ErrSignerIsAdmin is returned when a delegation names a current admin as
	// signer. admins do not hold delegated permissions
	ErrSignerIsAdmin = errors.New("signer is already an admin")
	// ErrRequestWindowExpired is returned when the submission time falls
	// outside the request validity window
	ErrRequestWindowExpired = errors.New("request window expired")
	// ErrReplayedRequest is returned when the request id has been executed before
	ErrReplayedRequest = errors.New("request already executed")
	// ErrInvalidSignature is returned for malformed signatures and for
	// signatures whose recovered signer is not a current admin
	ErrInvalidSignature = errors.New("Invalid signature")
)
