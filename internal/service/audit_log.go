package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/socioplus/internal/audit"
	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/go-chi/chi/v5/middleware"
)

// Ensure AuditLogService implements the audit.Logger interface
var _ audit.Logger = (*AuditLogService)(nil)

// AuditLogService persists audit entries and serves them back to their subject
type AuditLogService struct {
	repo repository.AuditLogRepositoryIface
}

func NewAuditLogService(repo repository.AuditLogRepositoryIface) *AuditLogService {
	return &AuditLogService{
		repo: repo,
	}
}

func (s *AuditLogService) LogPermissionCheck(
	ctx context.Context,
	subject model.Subject,
	permission string,
	object model.Entity,
	result bool,
	contextData map[string]interface{},
) error {
	return s.repo.Create(ctx, newAuditLog(ctx, model.AuditLog{
		ActionType:  model.ActionPermissionCheck,
		Result:      &result,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Permission:  permission,
		Context:     model.JSONMap(contextData),
	}))
}

func (s *AuditLogService) LogEntityCreate(
	ctx context.Context,
	subject model.Subject,
	object model.Entity,
	attributes map[string]interface{},
) error {
	return s.repo.Create(ctx, newAuditLog(ctx, model.AuditLog{
		ActionType:  model.ActionEntityCreate,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Context:     model.JSONMap(attributes),
	}))
}

func (s *AuditLogService) LogStatusTransition(
	ctx context.Context,
	subject model.Subject,
	object model.Entity,
	from string,
	to string,
) error {
	return s.repo.Create(ctx, newAuditLog(ctx, model.AuditLog{
		ActionType:  model.ActionStatusTransition,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Context:     model.JSONMap{"from": from, "to": to},
	}))
}

// GetAuditLogs returns entries where the caller is the subject. Any subject
// filter in params is overridden.
func (s *AuditLogService) GetAuditLogs(
	ctx context.Context,
	caller auth.Identity,
	params repository.QueryParams,
) ([]model.AuditLog, int64, error) {
	if !caller.IsOrganization() {
		return nil, 0, domain.ErrForbidden
	}

	subject := caller.Subject()
	params.SubjectType = subject.Type
	params.SubjectID = subject.ID

	logs, total, err := s.repo.Query(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("querying audit logs: %w", err)
	}
	return logs, total, nil
}

func newAuditLog(ctx context.Context, log model.AuditLog) *model.AuditLog {
	meta := audit.RequestMetaFromContext(ctx)

	log.Timestamp = time.Now().UTC()
	log.RequestID = meta.RequestID
	if log.RequestID == "" {
		log.RequestID = middleware.GetReqID(ctx)
	}
	log.ClientIP = meta.ClientIP
	log.UserAgent = meta.UserAgent
	return &log
}
