package service

import (
	"context"
	"reflect"
	"strings"

	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/go-playground/validator/v10"
)

// newValidator reports field errors under their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Notifier is told about workflow events after they are committed.
// Failures are logged and never undo the operation.
type Notifier interface {
	UserRegistered(ctx context.Context, user *model.User) error
	ApplicationSubmitted(ctx context.Context, opp *model.Opportunity, app *model.Application, applicantEmail string) error
	ApplicationDecided(ctx context.Context, app *model.Application) error
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) UserRegistered(ctx context.Context, user *model.User) error {
	return nil
}

func (NoopNotifier) ApplicationSubmitted(ctx context.Context, opp *model.Opportunity, app *model.Application, applicantEmail string) error {
	return nil
}

func (NoopNotifier) ApplicationDecided(ctx context.Context, app *model.Application) error {
	return nil
}
