package handler

import (
	"net/http"

	userdomain "property-match-go/internal/domain/user"
	"property-match-go/internal/transport/httpserver/middleware"
)

type userResponse struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	IsAdmin           bool    `json:"is_admin"`
	HasRequestedAdmin bool    `json:"has_requested_admin"`
	LandlordID        *string `json:"landlord_id"`
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		IsAdmin:           u.IsAdmin,
		HasRequestedAdmin: u.HasRequestedAdmin,
		LandlordID:        u.LandlordID,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) RequestAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Users.RequestAdmin(r.Context(), user.ID); err != nil {
		h.log.InternalError("auth.request_admin: request failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "requested"})
}

// currentUser pulls the authenticated user off the context. The auth
// middleware guarantees it is present on every gated route.
func currentUser(w http.ResponseWriter, r *http.Request) (*userdomain.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return nil, false
	}
	return user, true
}

// requireLandlordID resolves the landlord the user acts as, writing a 403
// when the account has no landlord record linked.
func requireLandlordID(w http.ResponseWriter, r *http.Request) (string, *userdomain.User, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return "", nil, false
	}
	if user.LandlordID == nil {
		writeError(w, http.StatusForbidden, "landlord_required", "no landlord linked to this account")
		return "", nil, false
	}
	return *user.LandlordID, user, true
}
