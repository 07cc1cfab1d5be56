package handler

import (
	"net/http"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/service"
)

type ApplicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

type ApplicationResponse struct {
	BaseResponse
	Application *model.Application `json:"application"`
}

type ApplicationListResponse struct {
	BaseResponse
	Applications []*model.Application `json:"applications"`
}

type OwnerApplicationsResponse struct {
	BaseResponse
	*service.OwnerApplications
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	opportunityID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var input service.ApplyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	app, err := h.applicationService.Apply(r.Context(), auth.IdentityFromContext(r.Context()), opportunityID, input.Message)
	if err != nil {
		respondWithServiceError(w, r, err, "Apply to opportunity")
		return
	}

	respondWithJSON(w, http.StatusCreated, ApplicationResponse{BaseResponse: BaseResponse{Ok: true}, Application: app})
}

func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var input service.DecideInput
	if !decodeJSON(w, r, &input) {
		return
	}

	app, err := h.applicationService.Decide(r.Context(), auth.IdentityFromContext(r.Context()), applicationID, input.Action)
	if err != nil {
		respondWithServiceError(w, r, err, "Decide application")
		return
	}

	respondWithJSON(w, http.StatusOK, ApplicationResponse{BaseResponse: BaseResponse{Ok: true}, Application: app})
}

// ListMine lists the calling volunteer's applications
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	apps, err := h.applicationService.ListForVolunteer(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err, "List own applications")
		return
	}

	respondWithJSON(w, http.StatusOK, ApplicationListResponse{BaseResponse: BaseResponse{Ok: true}, Applications: apps})
}

// ListForOwner lists applications across the calling organization's postings
func (h *ApplicationHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	result, err := h.applicationService.ListForOpportunityOwner(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err, "List received applications")
		return
	}

	respondWithJSON(w, http.StatusOK, OwnerApplicationsResponse{BaseResponse: BaseResponse{Ok: true}, OwnerApplications: result})
}
