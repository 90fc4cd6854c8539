package middleware

import (
	"net/http"
)

// RequireAdmin allows the request through only when the session claims carry
// is_admin. It must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Token not found")
			return
		}

		if !claims.IsAdmin {
			respondError(w, http.StatusForbidden, "Unauthorized: not an Admin")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin allows the request through only when the session claims
// carry is_super_admin. The flag is independent of is_admin: a super-admin
// without the admin flag still fails RequireAdmin, and vice versa.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Token not found")
			return
		}

		if !claims.IsSuperAdmin {
			respondError(w, http.StatusForbidden, "Unauthorized: you're not allowed to perform this action")
			return
		}

		next.ServeHTTP(w, r)
	})
}
