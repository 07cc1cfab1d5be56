package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepositoryIface interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByUserAndOpportunity(ctx context.Context, userID, opportunityID uuid.UUID) (*model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ApplicationStatus) error
	ListByVolunteer(ctx context.Context, userID uuid.UUID) ([]*model.Application, error)
	ListByOpportunityOwner(ctx context.Context, orgID uuid.UUID) ([]*model.Application, error)
}

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts the application. The (user_id, opportunity_id) unique index
// is the final word on duplicates; a violation comes back as
// domain.ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	result := conn(ctx, r.db).Omit("Volunteer", "Opportunity").Create(app)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to create application: %w", result.Error)
	}
	return nil
}

// FindByID loads the application with its applicant and its opportunity,
// which carries the owning organization's id.
func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	result := conn(ctx, r.db).Preload("Opportunity").Preload("Volunteer").First(&app, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", result.Error)
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByUserAndOpportunity(ctx context.Context, userID, opportunityID uuid.UUID) (*model.Application, error) {
	var app model.Application
	result := conn(ctx, r.db).
		Where("user_id = ? AND opportunity_id = ?", userID, opportunityID).
		First(&app)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", result.Error)
	}
	return &app, nil
}

// UpdateStatus moves an application from one status to another. The update
// only matches while the row is still in the from status, so two racing
// decisions cannot both succeed.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ApplicationStatus) error {
	result := conn(ctx, r.db).
		Model(&model.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ListByVolunteer returns a volunteer's applications, newest first.
func (r *ApplicationRepository) ListByVolunteer(ctx context.Context, userID uuid.UUID) ([]*model.Application, error) {
	var apps []*model.Application
	result := conn(ctx, r.db).
		Preload("Opportunity").
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Find(&apps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list applications: %w", result.Error)
	}
	return apps, nil
}

// ListByOpportunityOwner returns every application to any opportunity the
// organization posted, newest first.
func (r *ApplicationRepository) ListByOpportunityOwner(ctx context.Context, orgID uuid.UUID) ([]*model.Application, error) {
	var apps []*model.Application
	result := conn(ctx, r.db).
		Joins("JOIN opportunities ON opportunities.id = applications.opportunity_id").
		Where("opportunities.org_id = ?", orgID).
		Preload("Opportunity").
		Preload("Volunteer").
		Order("applications.applied_at DESC").
		Find(&apps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list applications for owner: %w", result.Error)
	}
	return apps, nil
}
