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

type OpportunityRepositoryIface interface {
	Create(ctx context.Context, opp *model.Opportunity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Opportunity, error)
	ListOpen(ctx context.Context) ([]*model.Opportunity, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Opportunity, error)
	ListByOwner(ctx context.Context, orgID uuid.UUID) ([]*model.Opportunity, error)
	CountOpen(ctx context.Context) (int64, error)
}

type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func (r *OpportunityRepository) Create(ctx context.Context, opp *model.Opportunity) error {
	if err := conn(ctx, r.db).Omit("Organization").Create(opp).Error; err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

// FindByID loads the opportunity together with the posting organization.
func (r *OpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Opportunity, error) {
	var opp model.Opportunity
	result := conn(ctx, r.db).Preload("Organization").First(&opp, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", result.Error)
	}
	return &opp, nil
}

// ListOpen returns open opportunities, soonest first.
func (r *OpportunityRepository) ListOpen(ctx context.Context) ([]*model.Opportunity, error) {
	var opps []*model.Opportunity
	result := conn(ctx, r.db).
		Preload("Organization").
		Where("status = ?", model.OpportunityOpen).
		Order("date ASC").
		Order("created_at ASC").
		Find(&opps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list open opportunities: %w", result.Error)
	}
	return opps, nil
}

// ListRecent returns the most recently posted open opportunities.
func (r *OpportunityRepository) ListRecent(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	var opps []*model.Opportunity
	result := conn(ctx, r.db).
		Preload("Organization").
		Where("status = ?", model.OpportunityOpen).
		Order("created_at DESC").
		Limit(limit).
		Find(&opps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list recent opportunities: %w", result.Error)
	}
	return opps, nil
}

func (r *OpportunityRepository) ListByOwner(ctx context.Context, orgID uuid.UUID) ([]*model.Opportunity, error) {
	var opps []*model.Opportunity
	result := conn(ctx, r.db).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&opps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list opportunities by owner: %w", result.Error)
	}
	return opps, nil
}

func (r *OpportunityRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	result := conn(ctx, r.db).
		Model(&model.Opportunity{}).
		Where("status = ?", model.OpportunityOpen).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count open opportunities: %w", result.Error)
	}
	return count, nil
}
