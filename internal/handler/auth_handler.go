package handler

import (
	"net/http"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthHandler handles account HTTP requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if _, err := h.service.Register(r.Context(), &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Registration successful. Please check your email to confirm your account.", nil)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Login successful", resp)
}

// ConfirmEmail handles GET /api/auth/confirm-email?userId=&token=.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := uuid.Parse(q.Get("userId"))
	if err != nil || q.Get("token") == "" {
		handleError(w, r, model.ErrInvalidToken, h.logger)
		return
	}

	if err := h.service.ConfirmEmail(r.Context(), userID, q.Get("token")); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Email confirmed successfully", nil)
}

// ForgotPassword handles POST /api/auth/forgot-password. The response does
// not reveal whether the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "If the email is registered, a password reset link has been sent.", nil)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Password has been reset successfully", nil)
}

// AssignRole handles POST /api/auth/assign-role.
func (h *AuthHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req model.AssignRoleRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if err := h.service.AssignRole(r.Context(), &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Role assigned successfully", nil)
}
