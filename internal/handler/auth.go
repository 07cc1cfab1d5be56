// internal/handler/auth.go
package handler

import (
	"net/http"
	"time"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/middleware"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/service"
)

type AuthHandler struct {
	userService   *service.UserService
	sessionExpiry time.Duration
}

func NewAuthHandler(userService *service.UserService, sessionExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		sessionExpiry: sessionExpiry,
	}
}

type AuthResponse struct {
	BaseResponse
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type UserResponse struct {
	BaseResponse
	User *model.User `json:"user"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.userService.Register(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, err, "User registration")
		return
	}

	h.setSessionCookie(w, output.Token)
	respondWithJSON(w, http.StatusCreated, AuthResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         output.User,
		Token:        output.Token,
	})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.userService.Authenticate(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, err, "User login")
		return
	}

	h.setSessionCookie(w, output.Token)
	respondWithJSON(w, http.StatusOK, AuthResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         output.User,
		Token:        output.Token,
	})
}

// LogoutHandler clears the session cookie. Bearer tokens expire on their own.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "You have been logged out successfully."})
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	user, err := h.userService.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err, "Current user lookup")
		return
	}

	respondWithJSON(w, http.StatusOK, UserResponse{BaseResponse: BaseResponse{Ok: true}, User: user})
}

func (h *AuthHandler) DeleteMeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), auth.IdentityFromContext(r.Context())); err != nil {
		respondWithServiceError(w, r, err, "User deletion")
		return
	}

	h.LogoutHandler(w, r)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
