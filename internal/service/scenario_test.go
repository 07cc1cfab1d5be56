package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/dangerclosesec/socioplus/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the Postgres repositories that
// enforces the same unique constraints.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
	opps  map[uuid.UUID]*model.Opportunity
	apps  map[uuid.UUID]*model.Application
}

func newMemStore() *memStore {
	return &memStore{
		users: map[uuid.UUID]*model.User{},
		opps:  map[uuid.UUID]*model.Opportunity{},
		apps:  map[uuid.UUID]*model.Application{},
	}
}

type memTx struct{ ctx context.Context }

func (t memTx) Context() context.Context { return t.ctx }
func (memTx) Commit() error              { return nil }
func (memTx) Rollback() error            { return nil }

type memUsers struct{ *memStore }

var _ repository.UserRepositoryIface = memUsers{}

func (s memUsers) Begin(ctx context.Context) (repository.Transaction, error) {
	return memTx{ctx: ctx}, nil
}

func (s memUsers) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	user.ID = uuid.New()
	s.users[user.ID] = user
	return nil
}

func (s memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s memUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s memUsers) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memOpps struct{ *memStore }

var _ repository.OpportunityRepositoryIface = memOpps{}

func (s memOpps) Create(ctx context.Context, opp *model.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	opp.ID = uuid.New()
	s.opps[opp.ID] = opp
	return nil
}

func (s memOpps) FindByID(ctx context.Context, id uuid.UUID) (*model.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.opps[id]; ok {
		return o, nil
	}
	return nil, domain.ErrOpportunityNotFound
}

func (s memOpps) filter(keep func(*model.Opportunity) bool) []*model.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Opportunity{}
	for _, o := range s.opps {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s memOpps) ListOpen(ctx context.Context) ([]*model.Opportunity, error) {
	out := s.filter((*model.Opportunity).IsOpen)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (s memOpps) ListRecent(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	out := s.filter((*model.Opportunity).IsOpen)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memOpps) ListByOwner(ctx context.Context, orgID uuid.UUID) ([]*model.Opportunity, error) {
	return s.filter(func(o *model.Opportunity) bool { return o.OrgID == orgID }), nil
}

func (s memOpps) CountOpen(ctx context.Context) (int64, error) {
	return int64(len(s.filter((*model.Opportunity).IsOpen))), nil
}

type memApps struct{ *memStore }

var _ repository.ApplicationRepositoryIface = memApps{}

func (s memApps) Create(ctx context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.UserID == app.UserID && a.OpportunityID == app.OpportunityID {
			return domain.ErrAlreadyApplied
		}
	}
	app.ID = uuid.New()
	stored := *app
	s.apps[app.ID] = &stored
	return nil
}

func (s memApps) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	found := *a
	found.Opportunity = s.opps[a.OpportunityID]
	return &found, nil
}

func (s memApps) FindByUserAndOpportunity(ctx context.Context, userID, opportunityID uuid.UUID) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.UserID == userID && a.OpportunityID == opportunityID {
			found := *a
			return &found, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (s memApps) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok || a.Status != from {
		return domain.ErrInvalidTransition
	}
	a.Status = to
	return nil
}

func (s memApps) list(keep func(*model.Application) bool) []*model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Application{}
	for _, a := range s.apps {
		if keep(a) {
			found := *a
			out = append(out, &found)
		}
	}
	return out
}

func (s memApps) ListByVolunteer(ctx context.Context, userID uuid.UUID) ([]*model.Application, error) {
	return s.list(func(a *model.Application) bool { return a.UserID == userID }), nil
}

func (s memApps) ListByOpportunityOwner(ctx context.Context, orgID uuid.UUID) ([]*model.Application, error) {
	return s.list(func(a *model.Application) bool {
		opp, ok := s.opps[a.OpportunityID]
		return ok && opp.OrgID == orgID
	}), nil
}

type testApp struct {
	store         *memStore
	users         *service.UserService
	opportunities *service.OpportunityService
	applications  *service.ApplicationService
	dashboards    *service.DashboardService
}

func newTestApp() *testApp {
	store := newMemStore()
	users, opps, apps := memUsers{store}, memOpps{store}, memApps{store}
	return &testApp{
		store:         store,
		users:         service.NewUserService(users, newAuthService(), nil),
		opportunities: service.NewOpportunityService(opps, users, apps, nil, nil),
		applications:  service.NewApplicationService(apps, opps, users, nil, nil, nil),
		dashboards:    service.NewDashboardService(users, opps, apps),
	}
}

func (a *testApp) register(t *testing.T, email string, role model.Role) auth.Identity {
	t.Helper()
	out, err := a.users.Register(context.Background(), registerInput(email, role))
	require.NoError(t, err)
	return auth.IdentityFor(out.User)
}

func (a *testApp) post(t *testing.T, org auth.Identity, title string) *model.Opportunity {
	t.Helper()
	input := createInput()
	input.Title = title
	input.SpotsAvailable = intPtr(10)
	opp, err := a.opportunities.Create(context.Background(), org, input)
	require.NoError(t, err)
	return opp
}

func (a *testApp) applicationCount(opportunityID uuid.UUID) int {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	n := 0
	for _, stored := range a.store.apps {
		if stored.OpportunityID == opportunityID {
			n++
		}
	}
	return n
}

func TestScenarioApplyAndAccept(t *testing.T) {
	ctx := context.Background()
	a := newTestApp()

	org := a.register(t, "o@x.com", model.RoleOrganization)
	opp := a.post(t, org, "Food Drive")

	open, err := a.opportunities.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, opp.ID, open[0].ID)

	recent, err := a.opportunities.ListRecent(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	vol := a.register(t, "v@x.com", model.RoleVolunteer)
	application, err := a.applications.Apply(ctx, vol, opp.ID, "I want to help because I care about hunger.")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, application.Status)

	decided, err := a.applications.Decide(ctx, org, application.ID, model.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationAccepted, decided.Status)

	dash, err := a.dashboards.Volunteer(ctx, vol)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.AcceptedCount)
	assert.Equal(t, 0, dash.PendingCount)

	mine, err := a.applications.ListForVolunteer(ctx, vol.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.ApplicationAccepted, mine[0].Status)

	owned, err := a.applications.ListForOpportunityOwner(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, owned.Total)
	assert.Equal(t, 0, owned.Pending)

	_, err = a.applications.Decide(ctx, org, application.ID, model.ActionReject)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestScenarioDuplicateApply(t *testing.T) {
	ctx := context.Background()
	a := newTestApp()

	org := a.register(t, "o@x.com", model.RoleOrganization)
	opp := a.post(t, org, "Food Drive")
	vol := a.register(t, "v@x.com", model.RoleVolunteer)

	_, err := a.applications.Apply(ctx, vol, opp.ID, "I want to help because I care about hunger.")
	require.NoError(t, err)

	_, err = a.applications.Apply(ctx, vol, opp.ID, "Applying again with another long message.")
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.Equal(t, 1, a.applicationCount(opp.ID))
}

func TestScenarioConcurrentApply(t *testing.T) {
	ctx := context.Background()
	a := newTestApp()

	org := a.register(t, "o@x.com", model.RoleOrganization)
	opp := a.post(t, org, "Food Drive")
	vol := a.register(t, "v@x.com", model.RoleVolunteer)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.applications.Apply(ctx, vol, opp.ID, "I want to help because I care about hunger.")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, a.applicationCount(opp.ID))
}

func TestScenarioForeignOrganizationDecide(t *testing.T) {
	ctx := context.Background()
	a := newTestApp()

	owner := a.register(t, "o@x.com", model.RoleOrganization)
	other := a.register(t, "o2@x.com", model.RoleOrganization)
	opp := a.post(t, owner, "Food Drive")
	vol := a.register(t, "v@x.com", model.RoleVolunteer)

	application, err := a.applications.Apply(ctx, vol, opp.ID, "I want to help because I care about hunger.")
	require.NoError(t, err)

	_, err = a.applications.Decide(ctx, other, application.ID, model.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := memApps{a.store}.FindByID(ctx, application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, stored.Status)

	received, err := a.applications.ListForOpportunityOwner(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, received.Total)
}

func TestScenarioDuplicateEmail(t *testing.T) {
	a := newTestApp()
	a.register(t, "o@x.com", model.RoleOrganization)

	_, err := a.users.Register(context.Background(), registerInput("o@x.com", model.RoleVolunteer))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	count, err := memUsers{a.store}.CountByRole(context.Background(), model.RoleVolunteer)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func (a *testApp) setStatus(opportunityID uuid.UUID, status model.OpportunityStatus) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	a.store.opps[opportunityID].Status = status
}

func TestScenarioEmailsDifferingInCaseAreDistinctAccounts(t *testing.T) {
	ctx := context.Background()
	a := newTestApp()

	lower := a.register(t, "o@x.com", model.RoleOrganization)
	upper := a.register(t, "O@x.com", model.RoleOrganization)
	assert.NotEqual(t, lower.ID, upper.ID)

	in := registerInput("o@x.com", model.RoleOrganization)
	out, err := a.users.Authenticate(ctx, service.LoginInput{Email: "O@x.com", Password: in.Password})
	require.NoError(t, err)
	assert.Equal(t, upper.ID, out.User.ID)

	_, err = a.users.Register(ctx, registerInput("O@x.com", model.RoleVolunteer))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	organizations, err := memUsers{a.store}.CountByRole(ctx, model.RoleOrganization)
	require.NoError(t, err)
	assert.Equal(t, int64(2), organizations)
}

func TestScenarioOnlyOpenPostingsAreListed(t *testing.T) {
	ctx := context.Background()
	a := newTestApp()

	org := a.register(t, "o@x.com", model.RoleOrganization)
	open := a.post(t, org, "Food Drive")
	closed := a.post(t, org, "Park Cleanup")
	completed := a.post(t, org, "Clothing Swap")
	a.setStatus(closed.ID, model.OpportunityClosed)
	a.setStatus(completed.ID, model.OpportunityCompleted)

	ids := func(opps []*model.Opportunity) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(opps))
		for _, o := range opps {
			out = append(out, o.ID)
		}
		return out
	}

	listed, err := a.opportunities.ListOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{open.ID}, ids(listed))

	recent, err := a.opportunities.ListRecent(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{open.ID}, ids(recent))

	stats, err := a.dashboards.SiteStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOpportunities)
	assert.Equal(t, []uuid.UUID{open.ID}, ids(stats.RecentOpportunities))

	owned, err := a.opportunities.ListByOwner(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 3)
}
