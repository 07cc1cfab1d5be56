package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/dangerclosesec/socioplus/internal/service"
)

// AuditLogHandler exposes an organization's own audit trail
type AuditLogHandler struct {
	auditLogService *service.AuditLogService
}

func NewAuditLogHandler(auditLogService *service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogService: auditLogService,
	}
}

type AuditLogListResponse struct {
	BaseResponse
	Logs  []model.AuditLog `json:"logs"`
	Total int64            `json:"total"`
}

// GetAuditLogs handles requests to retrieve audit logs with filtering
func (h *AuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repository.QueryParams{
		ActionType: query.Get("action_type"),
		EntityType: query.Get("entity_type"),
		EntityID:   query.Get("entity_id"),
	}

	if resultStr := query.Get("result"); resultStr != "" {
		result, err := strconv.ParseBool(resultStr)
		if err == nil {
			params.Result = &result
		}
	}

	if startTimeStr := query.Get("start_time"); startTimeStr != "" {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err == nil {
			params.StartTime = startTime
		}
	}

	if endTimeStr := query.Get("end_time"); endTimeStr != "" {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err == nil {
			params.EndTime = endTime
		}
	}

	// Pagination
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	logs, total, err := h.auditLogService.GetAuditLogs(r.Context(), auth.IdentityFromContext(r.Context()), params)
	if err != nil {
		respondWithServiceError(w, r, err, "Get audit logs")
		return
	}

	respondWithJSON(w, http.StatusOK, AuditLogListResponse{BaseResponse: BaseResponse{Ok: true}, Logs: logs, Total: total})
}
