package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roomhive/booking-backend/internal/models"
	"github.com/roomhive/booking-backend/internal/services"
	"github.com/roomhive/booking-backend/libs/handlers"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps administrative user operations
type AdminService interface {
	// Method MakeAdmin grants the admin flag to a user.
	//
	// "userID" parameter identifies the user to promote.
	//
	// If the user does not exist or already is an admin, the error will be
	// returned together with "nil" value.
	MakeAdmin(ctx context.Context, userID int) (*models.User, error)
	// Method ListUsers retrieves every user in the database.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// AdminHandler handles user listing and promotion HTTP requests
type AdminHandler struct {
	handlers.BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers the protected routes.
// authenticate must run on both; the promotion route additionally requires
// the super-admin gate, which is independent of the admin flag.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authenticate, superAdminGate func(http.Handler) http.Handler) {
	r.With(authenticate).Get("/users", h.ListUsers)
	r.With(authenticate, superAdminGate).Patch("/make-admin/{id}", h.MakeAdmin)
}

// ListUsers handles GET /users
// @Summary Retrieve all users
// @Description Fetches all users in the database. Requires a valid session token.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]any "All users in the database"
// @Failure 401 {object} map[string]string "Missing, invalid or expired token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.Logger.Error("failed to list users", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "All users in the database",
		"data":    users,
	})
}

// MakeAdmin handles PATCH /make-admin/{id}
// @Summary Promote a user to admin
// @Description Grants the admin flag to a user. Requires a session token carrying the super-admin flag.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID of the user to promote"
// @Success 200 {object} map[string]string "User promoted"
// @Failure 400 {object} map[string]string "Invalid ID or user already an admin"
// @Failure 403 {object} map[string]string "Caller is not a super-admin"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /make-admin/{id} [patch]
func (h *AdminHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.adminService.MakeAdmin(r.Context(), userID)
	if err != nil {
		h.respondAdminError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User: %s is now an Admin", user.FullName),
	})
}

// respondAdminError maps admin service errors onto the HTTP taxonomy
func (h *AdminHandler) respondAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyAdmin):
		h.RespondError(w, http.StatusBadRequest, "User is already an Admin")
	case errors.Is(err, models.ErrUserNotFound):
		h.RespondError(w, http.StatusNotFound, "User not found")
	default:
		h.Logger.Error("unexpected admin service error", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
