package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/roomhive/booking-backend/internal/models"
	"github.com/roomhive/booking-backend/internal/services"
	"github.com/roomhive/booking-backend/libs/handlers"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic
type AuthService interface {
	// Method Register creates a new Unverified user and dispatches a
	// verification email.
	//
	// "req" parameter contains full name, email and password.
	//
	// On validation failure, duplicate email, or dispatch failure the error
	// will be returned; a dispatch failure still leaves the user created.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Method VerifyEmail runs the verification state machine for a link token.
	//
	// "token" parameter is the signed token from the verification link.
	//
	// The returned status distinguishes success, an already verified user and
	// an expiry-triggered reissue; failures are returned as errors.
	VerifyEmail(ctx context.Context, token string) (services.VerificationStatus, error)
	// Method Login authenticates credentials and issues a session token.
	//
	// "req" parameter contains email and password.
	//
	// On missing or invalid credentials, or an unknown email, the error will
	// be returned together with empty values.
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error)
}

// UserHandler handles registration, verification and login HTTP requests
type UserHandler struct {
	handlers.BaseHandler
	authService AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers the public auth routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.Register)
	r.Get("/verify-user/{token}", h.VerifyUser)
	r.Post("/login", h.Login)
}

// Register handles POST /users
// @Summary Register a new user
// @Description Register a new user with full name, email and password. Sends a verification email with a short-lived signed link.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} map[string]any "User registered successfully"
// @Failure 400 {object} map[string]string "Invalid fields or email already in use"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			h.RespondError(w, http.StatusBadRequest, fmt.Sprintf("Email: %s already in use", req.Email))
			return
		}
		h.respondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully, please check your email for the verification link",
		"data":    user,
	})
}

// VerifyUser handles GET /verify-user/{token}
// @Summary Verify a user's email
// @Description Verifies a user's email using the signed link token. An expired token triggers a fresh link by email.
// @Tags users
// @Produce json
// @Param token path string true "Verification token from the emailed link"
// @Success 200 {object} map[string]string "Account verified or new link sent"
// @Failure 400 {object} map[string]string "Invalid token or user already verified"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /verify-user/{token} [get]
func (h *UserHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	status, err := h.authService.VerifyEmail(r.Context(), token)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	switch status {
	case services.VerificationSuccess:
		h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Account verified successfully"})
	case services.VerificationLinkResent:
		h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Link expired: a new verification link was sent, please check your email"})
	case services.VerificationAlreadyDone:
		h.RespondError(w, http.StatusBadRequest, "User has already been verified, please proceed to login")
	default:
		h.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// Login handles POST /login
// @Summary Login user
// @Description Authenticate a user with email and password. Returns a session token embedding the user's role flags.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} map[string]any "Login successful"
// @Failure 400 {object} map[string]string "Missing or invalid credentials"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"data":    user,
		"token":   token,
	})
}

// respondServiceError maps service errors onto the HTTP taxonomy. Unexpected
// errors are logged and returned as a generic message.
func (h *UserHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrAlreadyAdmin):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUserNotFound):
		h.RespondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrDispatchFailed):
		h.Logger.Error("email dispatch failure", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Failed to send verification email")
	default:
		h.Logger.Error("unexpected service error", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
