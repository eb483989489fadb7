package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	landlorddomain "property-match-go/internal/domain/landlord"
	tenantdomain "property-match-go/internal/domain/tenant"
	userdomain "property-match-go/internal/domain/user"
)

const maxCSVUploadBytes = 20 << 20

type approveLandlordRequest struct {
	MembershipID string `json:"membership_id"`
}

type inviteRequest struct {
	Title        string `json:"title"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CompanyName  string `json:"company_name"`
	LandlordType string `json:"landlord_type"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	TownOrCity   string `json:"town_or_city"`
	County       string `json:"county"`
	Postcode     string `json:"postcode"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
}

type landlordListResponse struct {
	Items []landlordResponse `json:"items"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Users.List(r.Context())
	if err != nil {
		h.log.InternalError("admin.users: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{Items: toUserResponses(items)})
}

func (h *Handlers) ListAdminRequests(w http.ResponseWriter, r *http.Request) {
	items, err := h.Users.ListAdminRequests(r.Context())
	if err != nil {
		h.log.InternalError("admin.requests: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{Items: toUserResponses(items)})
}

func toUserResponses(items []userdomain.User) []userResponse {
	response := make([]userResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toUserResponse(item))
	}
	return response
}

func (h *Handlers) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, true)
}

func (h *Handlers) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, false)
}

func (h *Handlers) setAdmin(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	id := chi.URLParam(r, "id")
	if err := h.Users.SetAdmin(r.Context(), id, isAdmin); err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("admin.set_admin: update failed", err, "target_user_id", id, "is_admin", isAdmin)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListLandlords(w http.ResponseWriter, r *http.Request) {
	approved, err := parseBoolParam(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid approved filter")
		return
	}

	items, err := h.Landlords.List(r.Context(), approved)
	if err != nil {
		h.log.InternalError("admin.landlords: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]landlordResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toLandlordResponse(item))
	}
	writeJSON(w, http.StatusOK, landlordListResponse{Items: response})
}

func (h *Handlers) GetLandlord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.Landlords.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, landlorddomain.ErrLandlordNotFound) {
			writeError(w, http.StatusNotFound, "landlord_not_found", "landlord not found")
			return
		}
		h.log.InternalError("admin.landlord: get failed", err, "landlord_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toLandlordResponse(*record))
}

func (h *Handlers) ApproveLandlord(w http.ResponseWriter, r *http.Request) {
	var req approveLandlordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	admin, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if strings.TrimSpace(req.MembershipID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "membership id is required")
		return
	}

	if err := h.Landlords.ApproveCharter(r.Context(), id, admin.ID, req.MembershipID); err != nil {
		switch {
		case errors.Is(err, landlorddomain.ErrLandlordNotFound):
			writeError(w, http.StatusNotFound, "landlord_not_found", "landlord not found")
		case errors.Is(err, landlorddomain.ErrAlreadyApproved):
			h.log.BusinessError("admin.approve: already approved", err, "landlord_id", id)
			writeError(w, http.StatusConflict, "already_approved", "landlord charter already approved")
		case errors.Is(err, landlorddomain.ErrDuplicateMembershipID):
			h.log.BusinessError("admin.approve: duplicate membership id", err, "landlord_id", id)
			writeError(w, http.StatusConflict, "duplicate_membership_id", "membership id already in use")
		default:
			h.log.InternalError("admin.approve: approve failed", err, "landlord_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "first and last name are required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	created, err := h.Landlords.RegisterUnassigned(r.Context(), landlorddomain.RegisterInput{
		Title:        req.Title,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		LandlordType: req.LandlordType,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		TownOrCity:   req.TownOrCity,
		County:       req.County,
		Postcode:     req.Postcode,
	})
	if err != nil {
		if errors.Is(err, landlorddomain.ErrEmailAlreadyRegistered) {
			h.log.BusinessError("admin.invite: email taken", err)
			writeError(w, http.StatusConflict, "email_already_registered", "a landlord with this email already exists")
			return
		}
		h.log.InternalError("admin.invite: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toLandlordResponse(*created))
}

// ListTenants serves the admin tenant directory. With a postcode query the
// list is sorted by distance; when the postcode cannot be resolved the
// handler degrades to the unsorted list and reports why.
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parsePageParam(query.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}

	warning := ""
	var items []tenantdomain.Tenant
	if target := strings.TrimSpace(query.Get("postcode")); target != "" {
		items, err = h.Tenants.SortByLocation(r.Context(), target, page)
		if errors.Is(err, tenantdomain.ErrPostcodeNotFound) {
			warning = "postcode could not be resolved; results are unsorted"
			items, err = h.Tenants.List(r.Context(), tenantdomain.Filter{}, page)
		}
	} else {
		items, err = h.Tenants.List(r.Context(), tenantdomain.Filter{}, page)
	}
	if err != nil {
		h.log.InternalError("admin.tenants: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]tenantResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toTenantResponse(item))
	}
	writeJSON(w, http.StatusOK, tenantListResponse{Items: response, Page: page, Warning: warning})
}

func (h *Handlers) CheckTenantImport(w http.ResponseWriter, r *http.Request) {
	file, ok := h.csvFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	messages, err := h.Tenants.CheckImportHeader(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_csv", "could not read csv header")
		return
	}
	if messages == nil {
		messages = []tenantdomain.ImportMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *Handlers) ImportTenants(w http.ResponseWriter, r *http.Request) {
	file, ok := h.csvFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.Tenants.Import(r.Context(), file)
	if err != nil {
		h.log.InternalError("admin.import: import failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) csvFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxCSVUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart body")
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "csv file is required")
		return nil, false
	}
	return file, true
}
