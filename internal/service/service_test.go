package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/google/uuid"
)

// testHasher keeps argon2 cheap so the suite stays fast
var testHasher = auth.NewPasswordHasherWithConfig(auth.PasswordConfig{
	Time:    1,
	Memory:  1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
})

func newAuthService() *auth.AuthService {
	return auth.NewAuthService(testHasher, auth.NewTokenManager("test_secret", time.Hour))
}

func organization() (auth.Identity, *model.User) {
	user := &model.User{
		ID:    uuid.New(),
		Name:  "Community Food Bank",
		Email: "contact@foodbank.org",
		Role:  model.RoleOrganization,
	}
	return auth.IdentityFor(user), user
}

func volunteer() (auth.Identity, *model.User) {
	user := &model.User{
		ID:    uuid.New(),
		Name:  "John Doe",
		Email: "john@example.com",
		Role:  model.RoleVolunteer,
	}
	return auth.IdentityFor(user), user
}

func openOpportunity(orgID uuid.UUID) *model.Opportunity {
	return &model.Opportunity{
		ID:             uuid.New(),
		Title:          "Food Distribution Volunteer",
		Description:    "Help us distribute food to families in need.",
		Location:       "123 Main St, New York, NY",
		Date:           model.NewDate(time.Now().AddDate(0, 0, 7)),
		SpotsAvailable: 10,
		Status:         model.OpportunityOpen,
		OrgID:          orgID,
	}
}

// recordingNotifier captures notifications instead of sending email
type recordingNotifier struct {
	mu         sync.Mutex
	registered []*model.User
	submitted  []*model.Application
	decided    []*model.Application
	err        error
}

func (n *recordingNotifier) UserRegistered(ctx context.Context, user *model.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registered = append(n.registered, user)
	return n.err
}

func (n *recordingNotifier) ApplicationSubmitted(ctx context.Context, opp *model.Opportunity, app *model.Application, applicantEmail string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, app)
	return n.err
}

func (n *recordingNotifier) ApplicationDecided(ctx context.Context, app *model.Application) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decided = append(n.decided, app)
	return n.err
}

// recordingAudit keeps the permission check results and transitions it saw
type recordingAudit struct {
	mu          sync.Mutex
	checks      []bool
	creates     int
	transitions [][2]string
}

func (a *recordingAudit) LogPermissionCheck(ctx context.Context, subject model.Subject, permission string, object model.Entity, result bool, contextData map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checks = append(a.checks, result)
	return nil
}

func (a *recordingAudit) LogEntityCreate(ctx context.Context, subject model.Subject, object model.Entity, attributes map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creates++
	return nil
}

func (a *recordingAudit) LogStatusTransition(ctx context.Context, subject model.Subject, object model.Entity, from string, to string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transitions = append(a.transitions, [2]string{from, to})
	return nil
}
