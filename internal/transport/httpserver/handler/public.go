package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	propertydomain "property-match-go/internal/domain/property"
)

// PublicProperty serves a shared listing without authentication. The link is
// the only credential; wrong or revoked links and unfinished listings all
// come back as the same 404 so the route leaks nothing.
func (h *Handlers) PublicProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	link := chi.URLParam(r, "link")

	record, err := h.Properties.GetByPublicLink(r.Context(), id, link)
	if err != nil {
		if errors.Is(err, propertydomain.ErrPropertyNotFound) {
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
			return
		}
		h.log.InternalError("public.property: get failed", err, "property_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := toPropertyResponse(*record)
	response.PublicViewLink = nil
	writeJSON(w, http.StatusOK, response)
}
