package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned by authorization guards.
	ErrForbidden = errors.New("forbidden")
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed or forged")
	ErrTokenRevoked   = errors.New("token revoked")
)
