package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dangerclosesec/socioplus/internal/audit"
	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/metrics"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultRecentLimit = 6
	MaxRecentLimit     = 50
)

type OpportunityService struct {
	repo       repository.OpportunityRepositoryIface
	users      repository.UserRepositoryIface
	apps       repository.ApplicationRepositoryIface
	authorizer auth.Authorizer
	audit      audit.Logger
	validate   *validator.Validate
	now        func() time.Time
}

func NewOpportunityService(
	repo repository.OpportunityRepositoryIface,
	users repository.UserRepositoryIface,
	apps repository.ApplicationRepositoryIface,
	authorizer auth.Authorizer,
	auditLogger audit.Logger,
) *OpportunityService {
	if authorizer == nil {
		authorizer = auth.NewRuleAuthorizer()
	}
	if auditLogger == nil {
		auditLogger = audit.NoOpLogger{}
	}
	return &OpportunityService{
		repo:       repo,
		users:      users,
		apps:       apps,
		authorizer: authorizer,
		audit:      auditLogger,
		validate:   newValidator(),
		now:        time.Now,
	}
}

type CreateOpportunityInput struct {
	Title          string `json:"title" validate:"required,min=5,max=200"`
	Description    string `json:"description" validate:"required,min=20"`
	Location       string `json:"location" validate:"required,max=100"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Duration       string `json:"duration" validate:"max=50"`
	SkillsRequired string `json:"skills_required" validate:"max=200"`
	SpotsAvailable *int   `json:"spots_available" validate:"omitempty,gt=0"`
}

// OpportunityDetail is an opportunity as seen by a particular viewer
type OpportunityDetail struct {
	Opportunity       *model.Opportunity       `json:"opportunity"`
	HasApplied        bool                     `json:"has_applied"`
	ApplicationStatus *model.ApplicationStatus `json:"application_status,omitempty"`
}

// Create posts a new opportunity owned by the calling organization. The
// caller's role is confirmed against the stored account, not just the
// session claims.
func (s *OpportunityService) Create(ctx context.Context, owner auth.Identity, input CreateOpportunityInput) (*model.Opportunity, error) {
	if !owner.IsOrganization() {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("loading owner: %w", err)
	}
	if !user.IsOrganization() {
		return nil, domain.ErrForbidden
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)

	if err := s.validate.Struct(input); err != nil {
		return nil, domain.FromValidator(err)
	}

	date, err := model.ParseDate(input.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "must be a date formatted as 2006-01-02")
	}

	spots := 1
	if input.SpotsAvailable != nil {
		spots = *input.SpotsAvailable
	}

	opp := &model.Opportunity{
		Title:          input.Title,
		Description:    input.Description,
		Location:       input.Location,
		Date:           date,
		Duration:       strings.TrimSpace(input.Duration),
		SkillsRequired: model.ParseSkills(input.SkillsRequired),
		SpotsAvailable: spots,
		Status:         model.OpportunityOpen,
		OrgID:          user.ID,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repo.Create(ctx, opp); err != nil {
		return nil, fmt.Errorf("creating opportunity: %w", err)
	}
	opp.Organization = user

	if err := s.authorizer.RecordOwnership(ctx, opp); err != nil {
		slog.ErrorContext(ctx, "failed to record opportunity ownership", "error", err, "opportunityID", opp.ID)
	}

	if err := s.audit.LogEntityCreate(ctx, owner.Subject(), model.OpportunityEntity(opp.ID), map[string]interface{}{
		"title":           opp.Title,
		"date":            opp.Date.String(),
		"spots_available": opp.SpotsAvailable,
	}); err != nil {
		slog.WarnContext(ctx, "failed to audit opportunity creation", "error", err, "opportunityID", opp.ID)
	}

	metrics.OpportunityCreated()

	return opp, nil
}

// ListOpen returns every open opportunity ordered by date, soonest first.
func (s *OpportunityService) ListOpen(ctx context.Context) ([]*model.Opportunity, error) {
	return s.repo.ListOpen(ctx)
}

// ListRecent returns the newest open opportunities. A non-positive limit
// means DefaultRecentLimit.
func (s *OpportunityService) ListRecent(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *OpportunityService) Get(ctx context.Context, id uuid.UUID) (*model.Opportunity, error) {
	return s.repo.FindByID(ctx, id)
}

// GetDetail adds the viewer's own application state when the viewer is a
// volunteer.
func (s *OpportunityService) GetDetail(ctx context.Context, viewer auth.Identity, id uuid.UUID) (*OpportunityDetail, error) {
	opp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &OpportunityDetail{Opportunity: opp}
	if !viewer.IsVolunteer() {
		return detail, nil
	}

	app, err := s.apps.FindByUserAndOpportunity(ctx, viewer.ID, opp.ID)
	switch {
	case err == nil:
		detail.HasApplied = true
		detail.ApplicationStatus = &app.Status
	case errors.Is(err, domain.ErrApplicationNotFound):
	default:
		return nil, fmt.Errorf("checking existing application: %w", err)
	}

	return detail, nil
}

// ListByOwner returns an organization's postings, newest first.
func (s *OpportunityService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Opportunity, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
