package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/roomhive/booking-backend/internal/models"
	"github.com/roomhive/booking-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	registerUser *models.User
	registerErr  error

	verifyStatus services.VerificationStatus
	verifyErr    error

	loginToken string
	loginUser  *models.User
	loginErr   error
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.registerErr != nil {
		return m.registerUser, m.registerErr
	}
	return m.registerUser, nil
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, token string) (services.VerificationStatus, error) {
	return m.verifyStatus, m.verifyErr
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	if m.loginErr != nil {
		return "", nil, m.loginErr
	}
	return m.loginToken, m.loginUser, nil
}

func newUserTestRouter(svc *mockAuthService) chi.Router {
	r := chi.NewRouter()
	NewUserHandler(svc, zap.NewNop()).RegisterRoutes(r)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockAuthService{
			registerUser: &models.User{ID: 1, FullName: "Jane Doe", Email: "jane@x.com"},
		}
		router := newUserTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(
			`{"fullName":"Jane Doe","email":"jane@x.com","password":"Secret123!"}`,
		))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "User registered successfully, please check your email for the verification link", body["message"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "jane@x.com", data["email"])
		// The password hash never leaves the server
		assert.NotContains(t, data, "passwordHash")
		assert.NotContains(t, data, "password_hash")
	})

	t.Run("invalid body", func(t *testing.T) {
		router := newUserTestRouter(&mockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email already in use", func(t *testing.T) {
		svc := &mockAuthService{registerErr: services.ErrEmailTaken}
		router := newUserTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(
			`{"fullName":"Jane Doe","email":"jane@x.com","password":"Secret123!"}`,
		))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Email: jane@x.com already in use", body["message"])
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &mockAuthService{registerErr: services.ErrValidation}
		router := newUserTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(
			`{"fullName":"J","email":"jane@x.com","password":"weak"}`,
		))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		svc := &mockAuthService{
			registerUser: &models.User{ID: 1, Email: "jane@x.com"},
			registerErr:  services.ErrDispatchFailed,
		}
		router := newUserTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(
			`{"fullName":"Jane Doe","email":"jane@x.com","password":"Secret123!"}`,
		))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Failed to send verification email", body["message"])
	})
}

func TestUserHandler_VerifyUser(t *testing.T) {
	tests := []struct {
		name        string
		status      services.VerificationStatus
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "account verified",
			status:      services.VerificationSuccess,
			wantStatus:  http.StatusOK,
			wantMessage: "Account verified successfully",
		},
		{
			name:        "expired link triggers a resend",
			status:      services.VerificationLinkResent,
			wantStatus:  http.StatusOK,
			wantMessage: "Link expired: a new verification link was sent, please check your email",
		},
		{
			name:        "already verified",
			status:      services.VerificationAlreadyDone,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "User has already been verified, please proceed to login",
		},
		{
			name:        "invalid token",
			err:         services.ErrInvalidToken,
			wantStatus:  http.StatusBadRequest,
			wantMessage: services.ErrInvalidToken.Error(),
		},
		{
			name:        "user deleted after link issued",
			err:         models.ErrUserNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "User not found",
		},
		{
			name:        "resend dispatch failure",
			err:         services.ErrDispatchFailed,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to send verification email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{verifyStatus: tt.status, verifyErr: tt.err}
			router := newUserTestRouter(svc)

			req := httptest.NewRequest(http.MethodGet, "/verify-user/some-token", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("success returns user and token", func(t *testing.T) {
		svc := &mockAuthService{
			loginToken: "signed.session.token",
			loginUser:  &models.User{ID: 1, FullName: "Jane Doe", Email: "jane@x.com", IsVerified: true},
		}
		router := newUserTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(
			`{"email":"jane@x.com","password":"Secret123!"}`,
		))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Login successful", body["message"])
		assert.Equal(t, "signed.session.token", body["token"])
	})

	t.Run("invalid body", func(t *testing.T) {
		router := newUserTestRouter(&mockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{name: "missing credentials", err: services.ErrMissingCredentials, wantStatus: http.StatusBadRequest},
			{name: "wrong password", err: services.ErrInvalidCredentials, wantStatus: http.StatusBadRequest},
			{name: "unknown email", err: models.ErrUserNotFound, wantStatus: http.StatusNotFound},
			{name: "unexpected error", err: errors.New("database error"), wantStatus: http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &mockAuthService{loginErr: tt.err}
				router := newUserTestRouter(svc)

				req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(
					`{"email":"jane@x.com","password":"Secret123!"}`,
				))
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				assert.Equal(t, tt.wantStatus, rec.Code)
			})
		}
	})
}
