package audit

import (
	"context"

	"github.com/dangerclosesec/socioplus/internal/model"
)

// Logger defines the interface for auditing operations
type Logger interface {
	// LogPermissionCheck logs the outcome of an authorization check
	LogPermissionCheck(
		ctx context.Context,
		subject model.Subject,
		permission string,
		object model.Entity,
		result bool,
		contextData map[string]interface{},
	) error

	// LogEntityCreate logs an entity creation
	LogEntityCreate(
		ctx context.Context,
		subject model.Subject,
		object model.Entity,
		attributes map[string]interface{},
	) error

	// LogStatusTransition logs a status change made by subject
	LogStatusTransition(
		ctx context.Context,
		subject model.Subject,
		object model.Entity,
		from string,
		to string,
	) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (NoOpLogger) LogPermissionCheck(
	ctx context.Context,
	subject model.Subject,
	permission string,
	object model.Entity,
	result bool,
	contextData map[string]interface{},
) error {
	return nil
}

func (NoOpLogger) LogEntityCreate(
	ctx context.Context,
	subject model.Subject,
	object model.Entity,
	attributes map[string]interface{},
) error {
	return nil
}

func (NoOpLogger) LogStatusTransition(
	ctx context.Context,
	subject model.Subject,
	object model.Entity,
	from string,
	to string,
) error {
	return nil
}
