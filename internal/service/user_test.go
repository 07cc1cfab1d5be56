package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/mocks"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func registerInput(email string, role model.Role) service.RegisterInput {
	return service.RegisterInput{
		Name:            "Alice Example",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            role,
	}
}

// expectTx wires a transaction whose context is ctx and which may be
// committed and is always rolled back on return.
func expectTx(ctrl *gomock.Controller, userRepo *mocks.MockUserRepositoryIface, commit bool) {
	tx := mocks.NewMockTransaction(ctrl)
	userRepo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Context().Return(context.Background())
	if commit {
		tx.EXPECT().Commit().Return(nil)
	}
	tx.EXPECT().Rollback().Return(nil)
}

func TestUserRegister(t *testing.T) {
	t.Run("creates the account and signs it in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		notifier := &recordingNotifier{}
		authService := newAuthService()

		expectTx(ctrl, userRepo, true)
		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "alice@example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, user *model.User) error {
				user.ID = uuid.New()
				return nil
			})

		svc := service.NewUserService(userRepo, authService, notifier)
		out, err := svc.Register(context.Background(), registerInput("  alice@example.com ", model.RoleVolunteer))

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", out.User.Email)
		assert.Equal(t, model.RoleVolunteer, out.User.Role)
		assert.NotEqual(t, "secret1", out.User.PasswordHash)
		assert.True(t, authService.VerifyPassword(out.User, "secret1"))
		assert.NotEmpty(t, out.Token)

		identity, err := authService.IdentityFromToken(out.Token)
		require.NoError(t, err)
		assert.Equal(t, out.User.ID, identity.ID)
		assert.Equal(t, model.RoleVolunteer, identity.Role)

		assert.Len(t, notifier.registered, 1)
	})

	t.Run("rejects an email that is already registered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		expectTx(ctrl, userRepo, false)
		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "alice@example.com").
			Return(&model.User{ID: uuid.New(), Email: "alice@example.com"}, nil)

		svc := service.NewUserService(userRepo, newAuthService(), nil)
		_, err := svc.Register(context.Background(), registerInput("alice@example.com", model.RoleOrganization))

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("treats emails differing in case as distinct", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		expectTx(ctrl, userRepo, true)
		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "Alice@Example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		svc := service.NewUserService(userRepo, newAuthService(), nil)
		out, err := svc.Register(context.Background(), registerInput("Alice@Example.com", model.RoleVolunteer))

		require.NoError(t, err)
		assert.Equal(t, "Alice@Example.com", out.User.Email)
	})

	t.Run("reports a lost insert race as a duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		expectTx(ctrl, userRepo, false)
		userRepo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUserNotFound)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrEmailAlreadyExists)

		svc := service.NewUserService(userRepo, newAuthService(), nil)
		_, err := svc.Register(context.Background(), registerInput("alice@example.com", model.RoleVolunteer))

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("validates input before touching the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc := service.NewUserService(userRepo, newAuthService(), nil)

		tests := []struct {
			name   string
			mutate func(in *service.RegisterInput)
			field  string
		}{
			{
				name:   "password mismatch",
				mutate: func(in *service.RegisterInput) { in.ConfirmPassword = "other1" },
				field:  "confirm_password",
			},
			{
				name: "short password",
				mutate: func(in *service.RegisterInput) {
					in.Password = "abc"
					in.ConfirmPassword = "abc"
				},
				field: "password",
			},
			{
				name:   "unknown role",
				mutate: func(in *service.RegisterInput) { in.Role = model.Role("admin") },
				field:  "role",
			},
			{
				name:   "malformed email",
				mutate: func(in *service.RegisterInput) { in.Email = "not-an-email" },
				field:  "email",
			},
			{
				name:   "blank name",
				mutate: func(in *service.RegisterInput) { in.Name = "   " },
				field:  "name",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				input := registerInput("a@example.com", model.RoleVolunteer)
				tc.mutate(&input)

				_, err := svc.Register(context.Background(), input)

				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				assert.Contains(t, verr.Fields, tc.field)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})
}

func TestUserAuthenticate(t *testing.T) {
	authService := newAuthService()
	hash, err := authService.HashPassword("secret1")
	require.NoError(t, err)

	stored := &model.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         model.RoleOrganization,
	}

	t.Run("correct password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByEmail(gomock.Any(), stored.Email).Return(stored, nil)

		svc := service.NewUserService(userRepo, authService, nil)
		out, err := svc.Authenticate(context.Background(), service.LoginInput{Email: stored.Email, Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, stored.ID, out.User.ID)
		assert.NotEmpty(t, out.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByEmail(gomock.Any(), stored.Email).Return(stored, nil)

		svc := service.NewUserService(userRepo, authService, nil)
		_, err := svc.Authenticate(context.Background(), service.LoginInput{Email: stored.Email, Password: "wrong-password"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, domain.ErrUserNotFound)

		svc := service.NewUserService(userRepo, authService, nil)
		_, err := svc.Authenticate(context.Background(), service.LoginInput{Email: "nobody@example.com", Password: "secret1"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("email match is case sensitive", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByEmail(gomock.Any(), "ALICE@example.com").Return(nil, domain.ErrUserNotFound)

		svc := service.NewUserService(userRepo, authService, nil)
		_, err := svc.Authenticate(context.Background(), service.LoginInput{Email: "ALICE@example.com", Password: "secret1"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepositoryIface(ctrl)
	svc := service.NewUserService(userRepo, newAuthService(), nil)

	err := svc.Delete(context.Background(), auth.Anonymous)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	caller, _ := organization()
	userRepo.EXPECT().Delete(gomock.Any(), caller.ID).Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), caller))
}
