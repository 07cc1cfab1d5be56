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

type ApplicationService struct {
	repo       repository.ApplicationRepositoryIface
	opps       repository.OpportunityRepositoryIface
	users      repository.UserRepositoryIface
	authorizer auth.Authorizer
	audit      audit.Logger
	notifier   Notifier
	validate   *validator.Validate
	now        func() time.Time
}

func NewApplicationService(
	repo repository.ApplicationRepositoryIface,
	opps repository.OpportunityRepositoryIface,
	users repository.UserRepositoryIface,
	authorizer auth.Authorizer,
	auditLogger audit.Logger,
	notifier Notifier,
) *ApplicationService {
	if authorizer == nil {
		authorizer = auth.NewRuleAuthorizer()
	}
	if auditLogger == nil {
		auditLogger = audit.NoOpLogger{}
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &ApplicationService{
		repo:       repo,
		opps:       opps,
		users:      users,
		authorizer: authorizer,
		audit:      auditLogger,
		notifier:   notifier,
		validate:   newValidator(),
		now:        time.Now,
	}
}

type ApplyInput struct {
	Message string `json:"message" validate:"required,min=20,max=500"`
}

type DecideInput struct {
	Action model.DecisionAction `json:"action"`
}

// OwnerApplications is every application across an organization's postings
type OwnerApplications struct {
	Applications []*model.Application `json:"applications"`
	Total        int                  `json:"total"`
	Pending      int                  `json:"pending"`
}

// Apply submits the volunteer's application to an opportunity. Checks run in
// a fixed order: the opportunity must exist, the caller must be a volunteer
// (by session and by stored account), the pair must not already have an
// application, and the message must be 20 to 500 characters.
func (s *ApplicationService) Apply(ctx context.Context, volunteer auth.Identity, opportunityID uuid.UUID, message string) (*model.Application, error) {
	opp, err := s.opps.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	if !volunteer.IsVolunteer() {
		return nil, domain.ErrForbidden
	}

	applicant, err := s.users.FindByID(ctx, volunteer.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("loading applicant: %w", err)
	}
	if !applicant.IsVolunteer() {
		return nil, domain.ErrForbidden
	}

	_, err = s.repo.FindByUserAndOpportunity(ctx, volunteer.ID, opp.ID)
	switch {
	case err == nil:
		metrics.ApplicationEvent("duplicate")
		return nil, domain.ErrAlreadyApplied
	case !errors.Is(err, domain.ErrApplicationNotFound):
		return nil, fmt.Errorf("checking existing application: %w", err)
	}

	input := ApplyInput{Message: strings.TrimSpace(message)}
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.FromValidator(err)
	}

	app := &model.Application{
		Message:       input.Message,
		Status:        model.ApplicationPending,
		AppliedAt:     s.now().UTC(),
		UserID:        volunteer.ID,
		OpportunityID: opp.ID,
	}

	// Two concurrent applies can both pass the check above; the unique index
	// rejects the second and the repository reports ErrAlreadyApplied.
	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			metrics.ApplicationEvent("duplicate")
			return nil, err
		}
		return nil, fmt.Errorf("creating application: %w", err)
	}
	app.Opportunity = opp

	metrics.ApplicationEvent("submitted")

	if err := s.notifier.ApplicationSubmitted(ctx, opp, app, applicant.Email); err != nil {
		slog.WarnContext(ctx, "failed to notify organization of application", "error", err, "applicationID", app.ID)
	}

	return app, nil
}

// Decide accepts or rejects a pending application. Only organizations may
// call it, and only for applications to opportunities they posted.
func (s *ApplicationService) Decide(ctx context.Context, org auth.Identity, applicationID uuid.UUID, action model.DecisionAction) (*model.Application, error) {
	if !org.IsOrganization() {
		return nil, domain.ErrForbidden
	}

	app, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Opportunity == nil {
		if app.Opportunity, err = s.opps.FindByID(ctx, app.OpportunityID); err != nil {
			return nil, fmt.Errorf("loading opportunity: %w", err)
		}
	}

	allowed, err := s.authorizer.CanManage(ctx, org, app.Opportunity)
	if err != nil {
		return nil, fmt.Errorf("checking ownership: %w", err)
	}

	if err := s.audit.LogPermissionCheck(ctx, org.Subject(), auth.PermissionManage, model.OpportunityEntity(app.OpportunityID), allowed, map[string]interface{}{
		"application_id": app.ID.String(),
		"action":         string(action),
	}); err != nil {
		slog.WarnContext(ctx, "failed to audit permission check", "error", err, "applicationID", app.ID)
	}

	if !allowed {
		return nil, domain.ErrForbidden
	}

	target, ok := action.TargetStatus()
	if !ok {
		return nil, domain.ErrInvalidAction
	}

	if !app.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidTransition
	}

	from := app.Status
	if err := s.repo.UpdateStatus(ctx, app.ID, from, target); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("updating application status: %w", err)
	}
	app.Status = target
	app.UpdatedAt = s.now().UTC()

	if err := s.audit.LogStatusTransition(ctx, org.Subject(), model.ApplicationEntity(app.ID), string(from), string(target)); err != nil {
		slog.WarnContext(ctx, "failed to audit status transition", "error", err, "applicationID", app.ID)
	}

	metrics.ApplicationEvent(string(target))

	if err := s.notifier.ApplicationDecided(ctx, app); err != nil {
		slog.WarnContext(ctx, "failed to notify volunteer of decision", "error", err, "applicationID", app.ID)
	}

	return app, nil
}

// ListForVolunteer returns the volunteer's applications, newest first.
func (s *ApplicationService) ListForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*model.Application, error) {
	return s.repo.ListByVolunteer(ctx, volunteerID)
}

// ListForOpportunityOwner returns every application to the organization's
// opportunities with total and pending counts.
func (s *ApplicationService) ListForOpportunityOwner(ctx context.Context, orgID uuid.UUID) (*OwnerApplications, error) {
	apps, err := s.repo.ListByOpportunityOwner(ctx, orgID)
	if err != nil {
		return nil, err
	}

	counts := model.CountApplications(apps)
	return &OwnerApplications{
		Applications: apps,
		Total:        counts.Total,
		Pending:      counts.Pending,
	}, nil
}
