// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/metrics"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService struct {
	repo     repository.UserRepositoryIface
	auth     *auth.AuthService
	notifier Notifier
	validate *validator.Validate
}

func NewUserService(
	repo repository.UserRepositoryIface,
	authService *auth.AuthService,
	notifier Notifier,
) *UserService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &UserService{
		repo:     repo,
		auth:     authService,
		notifier: notifier,
		validate: newValidator(),
	}
}

type RegisterInput struct {
	Name            string     `json:"name" validate:"required,min=2,max=100"`
	Email           string     `json:"email" validate:"required,email"`
	Password        string     `json:"password" validate:"required,min=6"`
	ConfirmPassword string     `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            model.Role `json:"role" validate:"required,oneof=volunteer organization"`
	Phone           string     `json:"phone" validate:"max=20"`
	Location        string     `json:"location" validate:"max=100"`
	Bio             string     `json:"bio" validate:"max=1000"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthOutput is a user together with a fresh session token
type AuthOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a volunteer or organization account and signs it in.
// Emails are compared exactly, so addresses differing only in case are
// distinct accounts.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validate.Struct(input); err != nil {
		return nil, domain.FromValidator(err)
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// Start transaction
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	existing, err := s.repo.FindByEmail(txCtx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Phone:        strings.TrimSpace(input.Phone),
		Location:     strings.TrimSpace(input.Location),
		Bio:          strings.TrimSpace(input.Bio),
	}

	// A racing registration loses on the unique index and surfaces as
	// ErrEmailAlreadyExists from the repository.
	if err := s.repo.Create(txCtx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}

	metrics.UserRegistered(string(user.Role))

	if err := s.notifier.UserRegistered(ctx, user); err != nil {
		slog.WarnContext(ctx, "failed to send welcome email", "error", err, "userID", user.ID)
	}

	return &AuthOutput{User: user, Token: token}, nil
}

// Authenticate checks credentials and issues a session token. An unknown
// email and a wrong password are reported identically.
func (s *UserService) Authenticate(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validate.Struct(input); err != nil {
		return nil, domain.FromValidator(err)
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.auth.VerifyPassword(nil, input.Password)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.auth.VerifyPassword(user, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes the caller's own account along with everything it owns.
func (s *UserService) Delete(ctx context.Context, caller auth.Identity) error {
	if !caller.IsAuthenticated() {
		return domain.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, caller.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user deleted", "userID", caller.ID, "role", caller.Role)
	return nil
}
