// internal/auth/permify.go

package auth

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1 "buf.build/gen/go/permifyco/permify/protocolbuffers/go/base/v1"
	permify_grpc "github.com/Permify/permify-go/grpc"

	"github.com/dangerclosesec/socioplus/internal/model"
)

// PermifySchema models opportunity ownership for Permify.
const PermifySchema = `entity user {}

entity opportunity {
    relation owner @user

    permission manage = owner
}
`

// PermifyAuthorizer mirrors ownership into Permify and consults it on top
// of the stored org_id. Both must allow.
type PermifyAuthorizer struct {
	client        *permify_grpc.Client
	rules         RuleAuthorizer
	tenant        string
	schemaVersion string
	depth         int32
}

func WithTenant(tenant string) func(*PermifyAuthorizer) {
	return func(s *PermifyAuthorizer) {
		s.tenant = tenant
	}
}

// WithSchemaVersion pins checks and writes to a schema version
func WithSchemaVersion(schemaVersion string) func(*PermifyAuthorizer) {
	return func(s *PermifyAuthorizer) {
		s.schemaVersion = schemaVersion
	}
}

// WithDepth sets the maximum traversal depth of a check
func WithDepth(depth int32) func(*PermifyAuthorizer) {
	return func(s *PermifyAuthorizer) {
		s.depth = depth
	}
}

// NewPermifyAuthorizer dials the Permify gRPC endpoint at host
func NewPermifyAuthorizer(host string, options ...func(*PermifyAuthorizer)) (*PermifyAuthorizer, error) {
	client, err := permify_grpc.NewClient(
		permify_grpc.Config{
			Endpoint: host,
		},
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating permify client: %w", err)
	}

	a := &PermifyAuthorizer{client: client, depth: 20}
	for _, o := range options {
		o(a)
	}

	if a.tenant == "" {
		a.tenant = "t1"
	}

	return a, nil
}

// WriteSchema uploads PermifySchema and returns the new schema version.
func (a *PermifyAuthorizer) WriteSchema(ctx context.Context) (string, error) {
	resp, err := a.client.Schema.Write(ctx, &v1.SchemaWriteRequest{
		TenantId: a.tenant,
		Schema:   PermifySchema,
	})
	if err != nil {
		return "", fmt.Errorf("writing permify schema: %w", err)
	}
	return resp.SchemaVersion, nil
}

func (a *PermifyAuthorizer) RecordOwnership(ctx context.Context, opp *model.Opportunity) error {
	return a.writeRelationship(ctx, model.OpportunityEntity(opp.ID), RelationOwner, model.UserSubject(opp.OrgID))
}

func (a *PermifyAuthorizer) CanManage(ctx context.Context, caller Identity, opp *model.Opportunity) (bool, error) {
	if ok, _ := a.rules.CanManage(ctx, caller, opp); !ok {
		return false, nil
	}
	return a.check(ctx, model.OpportunityEntity(opp.ID), PermissionManage, caller.Subject())
}

func (a *PermifyAuthorizer) check(ctx context.Context, entity model.Entity, permission string, subject model.Subject) (bool, error) {
	cr, err := a.client.Permission.Check(ctx, &v1.PermissionCheckRequest{
		TenantId: a.tenant,
		Metadata: &v1.PermissionCheckRequestMetadata{
			SchemaVersion: a.schemaVersion,
			Depth:         a.depth,
		},
		Entity: &v1.Entity{
			Type: entity.Type,
			Id:   entity.ID,
		},
		Permission: permission,
		Subject: &v1.Subject{
			Type: subject.Type,
			Id:   subject.ID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("permify check: %w", err)
	}

	return cr.Can == v1.CheckResult_CHECK_RESULT_ALLOWED, nil
}

func (a *PermifyAuthorizer) writeRelationship(ctx context.Context, entity model.Entity, relation string, subject model.Subject) error {
	_, err := a.client.Data.WriteRelationships(ctx, &v1.RelationshipWriteRequest{
		TenantId: a.tenant,
		Metadata: &v1.RelationshipWriteRequestMetadata{
			SchemaVersion: a.schemaVersion,
		},
		Tuples: []*v1.Tuple{
			{
				Entity: &v1.Entity{
					Type: entity.Type,
					Id:   entity.ID,
				},
				Relation: relation,
				Subject: &v1.Subject{
					Type: subject.Type,
					Id:   subject.ID,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("permify write relationship: %w", err)
	}

	return nil
}
