// internal/repository/user.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryIface interface {
	Begin(ctx context.Context) (Transaction, error) // For mocking support in tests

	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role model.Role) (int64, error)
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Begin starts a new database transaction and returns a Transaction instance.
func (r *UserRepository) Begin(ctx context.Context) (Transaction, error) {
	return begin(ctx, r.db)
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	result := conn(ctx, r.db).Create(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", result.Error)
	}
	return nil
}

// FindByEmail matches the stored email exactly, including case.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := conn(ctx, r.db).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	result := conn(ctx, r.db).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return &user, nil
}

// Delete removes the user. Owned opportunities and applications go with it
// through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&model.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
