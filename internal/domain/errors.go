// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// User-related errors
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Opportunity-related errors
	ErrOpportunityNotFound = fmt.Errorf("opportunity %w", ErrNotFound)

	// Application-related errors
	ErrApplicationNotFound = fmt.Errorf("application %w", ErrNotFound)
	ErrAlreadyApplied      = errors.New("already applied to this opportunity")
	ErrInvalidTransition   = errors.New("invalid application status transition")
	ErrInvalidAction       = &ValidationError{Fields: map[string]string{"action": "must be one of accept, reject"}}
)
