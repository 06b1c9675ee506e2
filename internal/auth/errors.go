package auth

import "errors"

var (
	// ErrTokenMissing indicates no bearer token was supplied at all.
	ErrTokenMissing = errors.New("auth: no bearer token")
	// ErrInvalidToken covers bad signature, expiry and malformed tokens
	// uniformly so callers cannot distinguish the failure reason.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrRefreshUntracked indicates a refresh token absent from the active set.
	ErrRefreshUntracked = errors.New("auth: refresh token not tracked")

	ErrNotFound      = errors.New("auth: not found")
	ErrAlreadyExists = errors.New("auth: already exists")
	ErrInvalidInput  = errors.New("auth: invalid input")
	ErrUnauthorized  = errors.New("auth: unauthorized")
)
