package services

import (
	"context"

	"github.com/roomhive/booking-backend/internal/models"
	"go.uber.org/zap"
)

// AdminUserRepository is the interface that wraps the User table data access
// needed by administrative operations
type AdminUserRepository interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be
	// returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method Save persists the mutable fields of an existing user.
	//
	// If no row matches the user's ID, models.ErrUserNotFound will be returned.
	Save(ctx context.Context, user *models.User) error
	// Method GetAll retrieves all users.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.User, error)
}

// adminService implements administrative user operations
type adminService struct {
	userRepo AdminUserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// MakeAdmin grants the admin flag to a user. Promoting a user who is already
// an admin is reported via ErrAlreadyAdmin instead of mutating anything, so
// concurrent promotions stay harmless.
func (s *adminService) MakeAdmin(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin {
		return nil, ErrAlreadyAdmin
	}

	user.IsAdmin = true
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user promoted to admin", zap.Int("user_id", user.ID))
	return user, nil
}

// ListUsers retrieves every user in the database
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}
