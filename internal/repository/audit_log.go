package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepositoryIface interface {
	Create(ctx context.Context, log *model.AuditLog) error
	Query(ctx context.Context, params QueryParams) ([]model.AuditLog, int64, error)
}

var _ AuditLogRepositoryIface = (*AuditLogRepository)(nil)

// AuditLogRepository handles database operations for audit logs
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	if err := conn(ctx, r.db).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// QueryParams holds parameters for querying audit logs
type QueryParams struct {
	ActionType  string
	EntityType  string
	EntityID    string
	SubjectType string
	SubjectID   string
	Result      *bool
	StartTime   time.Time
	EndTime     time.Time
	Limit       int
	Offset      int
}

// Query retrieves audit logs matching params, newest first
func (r *AuditLogRepository) Query(ctx context.Context, params QueryParams) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var count int64

	query := conn(ctx, r.db).Model(&model.AuditLog{})

	if params.ActionType != "" {
		query = query.Where("action_type = ?", params.ActionType)
	}
	if params.EntityType != "" {
		query = query.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != "" {
		query = query.Where("entity_id = ?", params.EntityID)
	}
	if params.SubjectType != "" {
		query = query.Where("subject_type = ?", params.SubjectType)
	}
	if params.SubjectID != "" {
		query = query.Where("subject_id = ?", params.SubjectID)
	}
	if params.Result != nil {
		query = query.Where("result = ?", *params.Result)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("timestamp >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("timestamp <= ?", params.EndTime)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query = query.Limit(limit)

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	if err := query.Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query audit logs: %w", err)
	}

	return logs, count, nil
}
