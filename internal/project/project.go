// Package project holds the owned project resource and the authorization
// rules that gate access to it.
package project

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("project: not found")
	ErrInvalidInput = errors.New("project: invalid input")
)

// Project is an owned resource. A principal owns a project iff the project's
// OwnerEmail equals the principal's email.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"owner_email"`
	CreatedAt  time.Time `json:"created_at"`
}
