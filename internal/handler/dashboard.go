package handler

import (
	"net/http"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type VolunteerDashboardResponse struct {
	BaseResponse
	*service.VolunteerDashboard
}

type OrganizationDashboardResponse struct {
	BaseResponse
	*service.OrganizationDashboard
}

type StatsResponse struct {
	BaseResponse
	*service.SiteStats
}

func (h *DashboardHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
	dash, err := h.dashboardService.Volunteer(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err, "Volunteer dashboard")
		return
	}

	respondWithJSON(w, http.StatusOK, VolunteerDashboardResponse{BaseResponse: BaseResponse{Ok: true}, VolunteerDashboard: dash})
}

func (h *DashboardHandler) Organization(w http.ResponseWriter, r *http.Request) {
	dash, err := h.dashboardService.Organization(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err, "Organization dashboard")
		return
	}

	respondWithJSON(w, http.StatusOK, OrganizationDashboardResponse{BaseResponse: BaseResponse{Ok: true}, OrganizationDashboard: dash})
}

// Stats is the public landing page summary
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.SiteStats(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Site stats")
		return
	}

	respondWithJSON(w, http.StatusOK, StatsResponse{BaseResponse: BaseResponse{Ok: true}, SiteStats: stats})
}
