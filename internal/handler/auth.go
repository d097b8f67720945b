package handler

import (
	"log/slog"
	"net/http"

	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

// AuthHandler handles registration, login and session identity requests.
type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// Login verifies credentials and returns a bearer token. Follows the
// OAuth2 password grant shape (form-encoded username/password), matching
// FastAPI's OAuth2PasswordRequestForm.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, _, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the authenticated caller's user record
// GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}
