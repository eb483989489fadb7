package middleware

import "net/http"

// RequireAdmin rejects requests whose context user is not an admin.
// It must run after the auth middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if !user.IsAdmin {
			writeError(w, http.StatusForbidden, "admin_required", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLandlord rejects requests from users with no linked landlord.
func RequireLandlord(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if user.LandlordID == nil {
			writeError(w, http.StatusForbidden, "landlord_required", "no landlord linked to this account")
			return
		}
		next.ServeHTTP(w, r)
	})
}
