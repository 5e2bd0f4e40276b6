package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/response"
)

// Handler handles HTTP requests for account operations
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AuthRoutes returns the unauthenticated account endpoints
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/otp/send", h.SendOTP)
	r.Post("/otp/verify", h.VerifyOTP)
	r.Post("/password/forgot", h.ForgotPassword)
	r.Post("/password/reset", h.ResetPassword)

	return r
}

// Routes returns the authenticated account endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Profile)
	r.Put("/me", h.UpdateProfile)

	return r
}

// Register handles POST /auth/register
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} response.APIResponse{data=User}
// @Failure      409 {object} response.APIResponse
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to register")
		return
	}

	response.JSON(w, http.StatusCreated, u)
}

// Login handles POST /auth/login
// @Summary      Log in
// @Description  Check credentials and issue a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=LoginResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to log in")
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// SendOTP handles POST /auth/otp/send
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.SendOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, "Failed to send verification code")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

// VerifyOTP handles POST /auth/otp/verify
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.Code); err != nil {
		writeServiceError(w, err, "Failed to verify code")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

// ForgotPassword handles POST /auth/password/forgot
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.SendPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, "Failed to send reset token")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "If the address is registered, a reset token was sent"})
}

// ResetPassword handles POST /auth/password/reset
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		writeServiceError(w, err, "Failed to reset password")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// Profile handles GET /users/me
// @Summary      Get the current account
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=User}
// @Router       /users/me [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	u, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// UpdateProfile handles PUT /users/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, u)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrUserExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrInvalidToken):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
