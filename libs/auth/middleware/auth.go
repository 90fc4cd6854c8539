package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/roomhive/booking-backend/internal/models"
	"github.com/roomhive/booking-backend/libs/auth/service"
	"go.uber.org/zap"
)

type contextKey string

const claimsKey contextKey = "sessionClaims"

// UserFinder loads the user record behind a session token's subject.
// Every authenticated request reloads the user; there is no session cache.
type UserFinder interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// AuthMiddleware validates the bearer session token, reloads the user and
// attaches the decoded claims to the request context for downstream gates.
func AuthMiddleware(tokens *service.TokenService, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from the Authorization header, format "Bearer <token>"
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Token not found")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			claims, err := tokens.VerifyToken(parts[1])
			if err != nil {
				if errors.Is(err, service.ErrTokenExpired) {
					respondError(w, http.StatusUnauthorized, "Session timed-out, please login to continue")
					return
				}
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// A verification token must never pass as a session
			if claims.TokenType != service.TokenTypeSession {
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// Reload the user to confirm the subject still exists
			if _, err := users.GetByID(r.Context(), claims.UserID); err != nil {
				if errors.Is(err, models.ErrUserNotFound) {
					respondError(w, http.StatusNotFound, "Authentication failed: user not found")
					return
				}
				logger.Error("failed to load user during authentication",
					zap.Int("user_id", claims.UserID),
					zap.Error(err),
				)
				respondError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the session claims from context
func GetClaims(ctx context.Context) (service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(service.Claims)
	return claims, ok
}

// respondError writes a JSON error body without pulling in the handler layer
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
