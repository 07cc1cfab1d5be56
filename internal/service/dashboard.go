package service

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
)

// DashboardService derives read-only summaries from the stores.
type DashboardService struct {
	users repository.UserRepositoryIface
	opps  repository.OpportunityRepositoryIface
	apps  repository.ApplicationRepositoryIface
}

func NewDashboardService(
	users repository.UserRepositoryIface,
	opps repository.OpportunityRepositoryIface,
	apps repository.ApplicationRepositoryIface,
) *DashboardService {
	return &DashboardService{users: users, opps: opps, apps: apps}
}

type VolunteerDashboard struct {
	Applications  []*model.Application `json:"applications"`
	AcceptedCount int                  `json:"accepted_count"`
	PendingCount  int                  `json:"pending_count"`
}

type OrganizationDashboard struct {
	Opportunities       []*model.Opportunity `json:"opportunities"`
	Applications        []*model.Application `json:"applications"`
	TotalApplications   int                  `json:"total_applications"`
	PendingApplications int                  `json:"pending_applications"`
}

type SiteStats struct {
	TotalOpportunities  int64                `json:"total_opportunities"`
	TotalVolunteers     int64                `json:"total_volunteers"`
	TotalOrganizations  int64                `json:"total_organizations"`
	RecentOpportunities []*model.Opportunity `json:"recent_opportunities"`
}

func (s *DashboardService) Volunteer(ctx context.Context, caller auth.Identity) (*VolunteerDashboard, error) {
	if !caller.IsVolunteer() {
		return nil, domain.ErrForbidden
	}

	apps, err := s.apps.ListByVolunteer(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	counts := model.CountApplications(apps)
	return &VolunteerDashboard{
		Applications:  apps,
		AcceptedCount: counts.Accepted,
		PendingCount:  counts.Pending,
	}, nil
}

func (s *DashboardService) Organization(ctx context.Context, caller auth.Identity) (*OrganizationDashboard, error) {
	if !caller.IsOrganization() {
		return nil, domain.ErrForbidden
	}

	opps, err := s.opps.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListByOpportunityOwner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	counts := model.CountApplications(apps)
	return &OrganizationDashboard{
		Opportunities:       opps,
		Applications:        apps,
		TotalApplications:   counts.Total,
		PendingApplications: counts.Pending,
	}, nil
}

// SiteStats returns the public landing page figures.
func (s *DashboardService) SiteStats(ctx context.Context) (*SiteStats, error) {
	openCount, err := s.opps.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	volunteers, err := s.users.CountByRole(ctx, model.RoleVolunteer)
	if err != nil {
		return nil, fmt.Errorf("counting volunteers: %w", err)
	}

	organizations, err := s.users.CountByRole(ctx, model.RoleOrganization)
	if err != nil {
		return nil, fmt.Errorf("counting organizations: %w", err)
	}

	recent, err := s.opps.ListRecent(ctx, DefaultRecentLimit)
	if err != nil {
		return nil, err
	}

	return &SiteStats{
		TotalOpportunities:  openCount,
		TotalVolunteers:     volunteers,
		TotalOrganizations:  organizations,
		RecentOpportunities: recent,
	}, nil
}
