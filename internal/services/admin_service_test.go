package services

import (
	"context"
	"errors"
	"testing"

	"github.com/roomhive/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminService_MakeAdmin(t *testing.T) {
	t.Run("promotes a regular user", func(t *testing.T) {
		repo := newMockUserRepository(&models.User{ID: 3, FullName: "Jane Doe", Email: "jane@x.com", IsVerified: true})
		svc := NewAdminService(repo, zap.NewNop())

		user, err := svc.MakeAdmin(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		assert.False(t, user.IsSuperAdmin)
		assert.True(t, repo.users[3].IsAdmin)
		assert.Equal(t, 1, repo.saveCalls)
	})

	t.Run("already an admin", func(t *testing.T) {
		repo := newMockUserRepository(&models.User{ID: 3, Email: "jane@x.com", IsAdmin: true})
		svc := NewAdminService(repo, zap.NewNop())

		user, err := svc.MakeAdmin(context.Background(), 3)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrAlreadyAdmin)
		assert.Equal(t, 0, repo.saveCalls)
	})

	t.Run("super admin without admin flag still gets promoted", func(t *testing.T) {
		// The role flags are independent, a super admin is not implicitly an admin
		repo := newMockUserRepository(&models.User{ID: 4, Email: "root@x.com", IsSuperAdmin: true})
		svc := NewAdminService(repo, zap.NewNop())

		user, err := svc.MakeAdmin(context.Background(), 4)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		assert.True(t, user.IsSuperAdmin)
	})

	t.Run("user not found", func(t *testing.T) {
		repo := newMockUserRepository()
		svc := NewAdminService(repo, zap.NewNop())

		user, err := svc.MakeAdmin(context.Background(), 99)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("save error", func(t *testing.T) {
		repo := newMockUserRepository(&models.User{ID: 3, Email: "jane@x.com"})
		repo.saveErr = errors.New("database error")
		svc := NewAdminService(repo, zap.NewNop())

		user, err := svc.MakeAdmin(context.Background(), 3)
		assert.Nil(t, user)
		assert.Error(t, err)
	})
}

func TestAdminService_ListUsers(t *testing.T) {
	t.Run("returns all users", func(t *testing.T) {
		repo := newMockUserRepository(
			&models.User{ID: 1, Email: "jane@x.com"},
			&models.User{ID: 2, Email: "john@x.com", IsAdmin: true},
		)
		svc := NewAdminService(repo, zap.NewNop())

		users, err := svc.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := newMockUserRepository()
		repo.getErr = errors.New("database error")
		svc := NewAdminService(repo, zap.NewNop())

		users, err := svc.ListUsers(context.Background())
		assert.Nil(t, users)
		assert.Error(t, err)
	})
}
