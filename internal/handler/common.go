package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ErrorResponse struct { // TypeGen: ErrorResponse
	BaseResponse
	Error   string    `json:"error"`
	Details *[]string `json:"details,omitempty"`
	Code    *string   `json:"error_code,omitempty"`
}

type BaseResponse struct { // TypeGen: DefaultResponse
	Ok bool `json:"ok"`
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondWithServiceError maps a service error onto a status code and a
// user-facing message. Unexpected errors are logged and reported as 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		details := verr.Details()
		code := "validation_error"
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: &details, Code: &code})
		return
	case errors.Is(err, domain.ErrOpportunityNotFound):
		respondWithError(w, http.StatusNotFound, "Opportunity not found")
		return
	case errors.Is(err, domain.ErrApplicationNotFound):
		respondWithError(w, http.StatusNotFound, "Application not found")
		return
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
		return
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Access denied")
		return
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		respondWithError(w, http.StatusConflict, "Email already registered")
		return
	case errors.Is(err, domain.ErrAlreadyApplied):
		respondWithError(w, http.StatusConflict, "You have already applied to this opportunity")
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Application has already been decided")
		return
	}

	slog.ErrorContext(r.Context(), operation+" error", "error", err, "requestID", chimw.GetReqID(r.Context()))
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON reads the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// uuidParam parses a chi URL parameter, answering 404 when it is malformed
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Not found")
		return uuid.Nil, false
	}
	return id, true
}
