package auth

import (
	"context"

	"github.com/dangerclosesec/socioplus/internal/model"
)

// PermissionManage is the permission an organization needs on an
// opportunity to decide on its applications.
const PermissionManage = "manage"

// RelationOwner links an opportunity to the organization that posted it.
const RelationOwner = "owner"

// Authorizer answers ownership questions about opportunities.
type Authorizer interface {
	// RecordOwnership registers the posting organization as owner.
	RecordOwnership(ctx context.Context, opp *model.Opportunity) error
	// CanManage reports whether caller may decide on the opportunity's applications.
	CanManage(ctx context.Context, caller Identity, opp *model.Opportunity) (bool, error)
}

// RuleAuthorizer decides from the stored org_id alone.
type RuleAuthorizer struct{}

func NewRuleAuthorizer() *RuleAuthorizer {
	return &RuleAuthorizer{}
}

func (RuleAuthorizer) RecordOwnership(ctx context.Context, opp *model.Opportunity) error {
	return nil
}

func (RuleAuthorizer) CanManage(ctx context.Context, caller Identity, opp *model.Opportunity) (bool, error) {
	return caller.IsOrganization() && opp.OwnedBy(caller.ID), nil
}
