package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	landlorddomain "property-match-go/internal/domain/landlord"
)

type registerLandlordRequest struct {
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

type updateLandlordRequest struct {
	Title        *string `json:"title"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	CompanyName  *string `json:"company_name"`
	LandlordType *string `json:"landlord_type"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	TownOrCity   *string `json:"town_or_city"`
	County       *string `json:"county"`
	Postcode     *string `json:"postcode"`
}

type landlordResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	CompanyName       string  `json:"company_name"`
	LandlordType      string  `json:"landlord_type"`
	AddressLine1      string  `json:"address_line1"`
	AddressLine2      string  `json:"address_line2"`
	TownOrCity        string  `json:"town_or_city"`
	County            string  `json:"county"`
	Postcode          string  `json:"postcode"`
	IsCharterApproved bool    `json:"is_charter_approved"`
	MembershipID      *string `json:"membership_id"`
	InviteLink        *string `json:"invite_link,omitempty"`
}

func toLandlordResponse(l landlorddomain.Landlord) landlordResponse {
	return landlordResponse{
		ID:                l.ID,
		Title:             l.Title,
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		Email:             l.Email,
		Phone:             l.Phone,
		CompanyName:       l.CompanyName,
		LandlordType:      l.LandlordType,
		AddressLine1:      l.AddressLine1,
		AddressLine2:      l.AddressLine2,
		TownOrCity:        l.TownOrCity,
		County:            l.County,
		Postcode:          l.Postcode,
		IsCharterApproved: l.IsCharterApproved,
		MembershipID:      l.MembershipID,
		InviteLink:        l.InviteLink,
	}
}

func (h *Handlers) RegisterLandlord(w http.ResponseWriter, r *http.Request) {
	var req registerLandlordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
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

	input := landlorddomain.RegisterInput{
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
	}

	created, err := h.Landlords.Register(r.Context(), user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, landlorddomain.ErrEmailAlreadyRegistered):
			h.log.BusinessError("landlords.register: email taken", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "email_already_registered", "a landlord with this email already exists")
		case errors.Is(err, landlorddomain.ErrUserAlreadyHasLandlord):
			h.log.BusinessError("landlords.register: user already linked", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_registered", "this account already has a landlord record")
		default:
			h.log.InternalError("landlords.register: register failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toLandlordResponse(*created))
}

func (h *Handlers) GetLandlordMe(w http.ResponseWriter, r *http.Request) {
	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}

	record, err := h.Landlords.GetByID(r.Context(), landlordID)
	if err != nil {
		if errors.Is(err, landlorddomain.ErrLandlordNotFound) {
			h.log.BusinessError("landlords.me: landlord not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "landlord_not_found", "landlord not found")
			return
		}
		h.log.InternalError("landlords.me: get failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toLandlordResponse(*record))
}

func (h *Handlers) UpdateLandlordMe(w http.ResponseWriter, r *http.Request) {
	var req updateLandlordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}

	input := landlorddomain.UpdateInput{
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
	}

	updated, err := h.Landlords.Update(r.Context(), landlordID, input)
	if err != nil {
		switch {
		case errors.Is(err, landlorddomain.ErrLandlordNotFound):
			h.log.BusinessError("landlords.update: landlord not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "landlord_not_found", "landlord not found")
		case errors.Is(err, landlorddomain.ErrEmailAlreadyRegistered):
			h.log.BusinessError("landlords.update: email taken", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "email_already_registered", "a landlord with this email already exists")
		default:
			h.log.InternalError("landlords.update: update failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toLandlordResponse(*updated))
}

func (h *Handlers) ClaimInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	link := strings.TrimSpace(chi.URLParam(r, "link"))
	if link == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "invite link is required")
		return
	}

	claimed, err := h.Landlords.ClaimInvite(r.Context(), user.ID, link)
	if err != nil {
		switch {
		case errors.Is(err, landlorddomain.ErrInviteNotFound):
			h.log.BusinessError("landlords.claim: invite not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "invite_not_found", "invite link does not exist")
		case errors.Is(err, landlorddomain.ErrUserAlreadyHasLandlord):
			h.log.BusinessError("landlords.claim: user already linked", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_registered", "this account already has a landlord record")
		default:
			h.log.InternalError("landlords.claim: claim failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toLandlordResponse(*claimed))
}

func (h *Handlers) ListMyProperties(w http.ResponseWriter, r *http.Request) {
	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}

	items, err := h.Properties.ListByLandlord(r.Context(), landlordID)
	if err != nil {
		h.log.InternalError("landlords.properties: list failed", err, "user_id", user.ID, "landlord_id", landlordID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]propertyResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toPropertyResponse(item))
	}
	writeJSON(w, http.StatusOK, propertyListResponse{Items: response})
}
