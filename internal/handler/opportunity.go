package handler

import (
	"net/http"
	"strconv"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/service"
)

type OpportunityHandler struct {
	opportunityService *service.OpportunityService
}

func NewOpportunityHandler(opportunityService *service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

type OpportunityResponse struct {
	BaseResponse
	Opportunity *model.Opportunity `json:"opportunity"`
}

type OpportunityListResponse struct {
	BaseResponse
	Opportunities []*model.Opportunity `json:"opportunities"`
}

type OpportunityDetailResponse struct {
	BaseResponse
	*service.OpportunityDetail
}

// ListOpen is the public browse view
func (h *OpportunityHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opportunityService.ListOpen(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "List opportunities")
		return
	}

	respondWithJSON(w, http.StatusOK, OpportunityListResponse{BaseResponse: BaseResponse{Ok: true}, Opportunities: opps})
}

func (h *OpportunityHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	opps, err := h.opportunityService.ListRecent(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, r, err, "List recent opportunities")
		return
	}

	respondWithJSON(w, http.StatusOK, OpportunityListResponse{BaseResponse: BaseResponse{Ok: true}, Opportunities: opps})
}

// Get shows one opportunity. Signed-in volunteers also see whether they
// applied.
func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.opportunityService.GetDetail(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Get opportunity")
		return
	}

	respondWithJSON(w, http.StatusOK, OpportunityDetailResponse{BaseResponse: BaseResponse{Ok: true}, OpportunityDetail: detail})
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOpportunityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	opp, err := h.opportunityService.Create(r.Context(), auth.IdentityFromContext(r.Context()), input)
	if err != nil {
		respondWithServiceError(w, r, err, "Create opportunity")
		return
	}

	respondWithJSON(w, http.StatusCreated, OpportunityResponse{BaseResponse: BaseResponse{Ok: true}, Opportunity: opp})
}

// ListMine lists the calling organization's own postings
func (h *OpportunityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	opps, err := h.opportunityService.ListByOwner(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err, "List own opportunities")
		return
	}

	respondWithJSON(w, http.StatusOK, OpportunityListResponse{BaseResponse: BaseResponse{Ok: true}, Opportunities: opps})
}
