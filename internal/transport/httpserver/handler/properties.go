package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	propertydomain "property-match-go/internal/domain/property"
	tenantdomain "property-match-go/internal/domain/tenant"
	userdomain "property-match-go/internal/domain/user"
)

const maxImageUploadBytes = 10 << 20

type createPropertyRequest struct {
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	TownOrCity   string `json:"town_or_city"`
	County       string `json:"county"`
	Postcode     string `json:"postcode"`
}

type updateStepRequest struct {
	AddressLine1     *string  `json:"address_line1"`
	AddressLine2     *string  `json:"address_line2"`
	TownOrCity       *string  `json:"town_or_city"`
	County           *string  `json:"county"`
	Postcode         *string  `json:"postcode"`
	Description      *string  `json:"description"`
	RentPerMonth     *float64 `json:"rent_per_month"`
	NumBedrooms      *int     `json:"num_bedrooms"`
	PrefPets         *string  `json:"pref_pets"`
	PrefNotInEET     *string  `json:"pref_not_in_eet"`
	PrefFailedCredit *string  `json:"pref_failed_credit"`
	PrefOnBenefits   *string  `json:"pref_on_benefits"`
	PrefOver35       *string  `json:"pref_over_35"`
	PrefNoGuarantor  *string  `json:"pref_no_guarantor"`
	Availability     *string  `json:"availability"`
	AvailableFrom    *string  `json:"available_from"`
	TotalUnits       *int     `json:"total_units"`
	OccupiedUnits    *int     `json:"occupied_units"`
}

type setAvailabilityRequest struct {
	Availability  string  `json:"availability"`
	AvailableFrom *string `json:"available_from"`
}

type setUnitsRequest struct {
	TotalUnits    int `json:"total_units"`
	OccupiedUnits int `json:"occupied_units"`
}

type imageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type propertyResponse struct {
	ID             string            `json:"id"`
	LandlordID     string            `json:"landlord_id"`
	AddressLine1   string            `json:"address_line1"`
	AddressLine2   string            `json:"address_line2"`
	TownOrCity     string            `json:"town_or_city"`
	County         string            `json:"county"`
	Postcode       *string           `json:"postcode"`
	Description    string            `json:"description"`
	RentPerMonth   *float64          `json:"rent_per_month"`
	NumBedrooms    *int              `json:"num_bedrooms"`
	CompletedStep  int               `json:"completed_step"`
	IsIncomplete   bool              `json:"is_incomplete"`
	Availability   string            `json:"availability"`
	AvailableFrom  *string           `json:"available_from"`
	TotalUnits     int               `json:"total_units"`
	OccupiedUnits  int               `json:"occupied_units"`
	Preferences    map[string]string `json:"preferences"`
	PublicViewLink *string           `json:"public_view_link,omitempty"`
	Images         []imageResponse   `json:"images"`
}

type propertyListResponse struct {
	Items []propertyResponse `json:"items"`
}

type tenantResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Postcode          *string `json:"postcode"`
	HasPet            *bool   `json:"has_pet"`
	InEET             *bool   `json:"in_eet"`
	PassedCreditCheck *bool   `json:"passed_credit_check"`
	OnBenefits        *bool   `json:"on_benefits"`
	Over35            *bool   `json:"over_35"`
	HasGuarantor      *bool   `json:"has_guarantor"`
}

type tenantListResponse struct {
	Items   []tenantResponse `json:"items"`
	Page    int              `json:"page"`
	Warning string           `json:"warning,omitempty"`
}

func toPropertyResponse(p propertydomain.Property) propertyResponse {
	var availableFrom *string
	if p.AvailableFrom != nil {
		formatted := p.AvailableFrom.Format("2006-01-02")
		availableFrom = &formatted
	}

	images := make([]imageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageResponse{ID: img.ID, URL: img.URL})
	}

	return propertyResponse{
		ID:            p.ID,
		LandlordID:    p.LandlordID,
		AddressLine1:  p.AddressLine1,
		AddressLine2:  p.AddressLine2,
		TownOrCity:    p.TownOrCity,
		County:        p.County,
		Postcode:      p.Postcode,
		Description:   p.Description,
		RentPerMonth:  p.RentPerMonth,
		NumBedrooms:   p.NumBedrooms,
		CompletedStep: p.CompletedStep,
		IsIncomplete:  p.IsIncomplete,
		Availability:  p.Availability,
		AvailableFrom: availableFrom,
		TotalUnits:    p.TotalUnits,
		OccupiedUnits: p.OccupiedUnits,
		Preferences: map[string]string{
			"pets":          string(p.PrefPets),
			"not_in_eet":    string(p.PrefNotInEET),
			"failed_credit": string(p.PrefFailedCredit),
			"on_benefits":   string(p.PrefOnBenefits),
			"over_35":       string(p.PrefOver35),
			"no_guarantor":  string(p.PrefNoGuarantor),
		},
		PublicViewLink: p.PublicViewLink,
		Images:         images,
	}
}

func toTenantResponse(t tenantdomain.Tenant) tenantResponse {
	return tenantResponse{
		ID:                t.ID,
		Name:              t.Name,
		Email:             t.Email,
		Phone:             t.Phone,
		Postcode:          t.Postcode,
		HasPet:            t.HasPet,
		InEET:             t.InEET,
		PassedCreditCheck: t.PassedCreditCheck,
		OnBenefits:        t.OnBenefits,
		Over35:            t.Over35,
		HasGuarantor:      t.HasGuarantor,
	}
}

func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}

	if strings.TrimSpace(req.AddressLine1) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "address line 1 is required")
		return
	}

	created, err := h.Properties.Create(r.Context(), landlordID, propertydomain.CreateInput{
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		TownOrCity:   req.TownOrCity,
		County:       req.County,
		Postcode:     req.Postcode,
	})
	if err != nil {
		h.log.InternalError("properties.create: create failed", err, "user_id", user.ID, "landlord_id", landlordID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toPropertyResponse(*created))
}

func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	record, ok := h.loadPropertyForRead(w, r, user, id, "properties.get")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(*record))
}

// loadPropertyForRead fetches a property for routes that admit both the
// owning landlord and admins.
func (h *Handlers) loadPropertyForRead(w http.ResponseWriter, r *http.Request, user *userdomain.User, id, op string) (*propertydomain.Property, bool) {
	var (
		record *propertydomain.Property
		err    error
	)
	if user.LandlordID != nil {
		record, err = h.Properties.GetOwned(r.Context(), *user.LandlordID, id)
		if errors.Is(err, propertydomain.ErrNotOwner) && user.IsAdmin {
			record, err = h.Properties.GetByID(r.Context(), id)
		}
	} else if user.IsAdmin {
		record, err = h.Properties.GetByID(r.Context(), id)
	} else {
		writeError(w, http.StatusForbidden, "landlord_required", "no landlord linked to this account")
		return nil, false
	}

	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError(op+": property not found", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			h.log.BusinessError(op+": not owner", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		default:
			h.log.InternalError(op+": get failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return nil, false
	}
	return record, true
}

func (h *Handlers) UpdatePropertyStep(w http.ResponseWriter, r *http.Request) {
	var req updateStepRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	step, err := parsePageParam(chi.URLParam(r, "step"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid step")
		return
	}

	input, err := toUpdateInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.Properties.UpdateStep(r.Context(), landlordID, id, step, input)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("properties.step: property not found", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			h.log.BusinessError("properties.step: not owner", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		case errors.Is(err, propertydomain.ErrInvalidStep):
			writeError(w, http.StatusBadRequest, "invalid_step", "invalid listing step")
		default:
			h.log.InternalError("properties.step: update failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*updated))
}

func toUpdateInput(req updateStepRequest) (propertydomain.UpdateInput, error) {
	input := propertydomain.UpdateInput{
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		TownOrCity:    req.TownOrCity,
		County:        req.County,
		Postcode:      req.Postcode,
		Description:   req.Description,
		RentPerMonth:  req.RentPerMonth,
		NumBedrooms:   req.NumBedrooms,
		Availability:  req.Availability,
		TotalUnits:    req.TotalUnits,
		OccupiedUnits: req.OccupiedUnits,
	}

	if req.AvailableFrom != nil {
		parsed, err := parseDateParam(*req.AvailableFrom)
		if err != nil {
			return input, errors.New("invalid available_from date")
		}
		input.AvailableFrom = parsed
	}

	prefs := []struct {
		src string
		dst **propertydomain.Preference
		raw *string
	}{
		{"pref_pets", &input.PrefPets, req.PrefPets},
		{"pref_not_in_eet", &input.PrefNotInEET, req.PrefNotInEET},
		{"pref_failed_credit", &input.PrefFailedCredit, req.PrefFailedCredit},
		{"pref_on_benefits", &input.PrefOnBenefits, req.PrefOnBenefits},
		{"pref_over_35", &input.PrefOver35, req.PrefOver35},
		{"pref_no_guarantor", &input.PrefNoGuarantor, req.PrefNoGuarantor},
	}
	for _, p := range prefs {
		if p.raw == nil {
			continue
		}
		pref := propertydomain.Preference(*p.raw)
		switch pref {
		case propertydomain.PrefNone, propertydomain.PrefAccept, propertydomain.PrefReject:
			*p.dst = &pref
		default:
			return input, errors.New("invalid preference value for " + p.src)
		}
	}
	return input, nil
}

func (h *Handlers) CompleteProperty(w http.ResponseWriter, r *http.Request) {
	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	completed, err := h.Properties.Complete(r.Context(), landlordID, id)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("properties.complete: property not found", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			h.log.BusinessError("properties.complete: not owner", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		case errors.Is(err, propertydomain.ErrIncomplete):
			h.log.BusinessError("properties.complete: listing incomplete", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusConflict, "property_incomplete", "all listing steps must be finished first")
		default:
			h.log.InternalError("properties.complete: complete failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*completed))
}

func (h *Handlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var err error
	switch {
	case user.LandlordID != nil:
		err = h.Properties.DeleteOwned(r.Context(), *user.LandlordID, id)
		if errors.Is(err, propertydomain.ErrNotOwner) && user.IsAdmin {
			err = h.Properties.Delete(r.Context(), id)
		}
	case user.IsAdmin:
		err = h.Properties.Delete(r.Context(), id)
	default:
		writeError(w, http.StatusForbidden, "landlord_required", "no landlord linked to this account")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("properties.delete: property not found", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			h.log.BusinessError("properties.delete: not owner", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		default:
			h.log.InternalError("properties.delete: delete failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetPropertyAvailability(w http.ResponseWriter, r *http.Request) {
	var req setAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var availableFrom *time.Time
	if req.AvailableFrom != nil {
		parsed, err := parseDateParam(*req.AvailableFrom)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid available_from date")
			return
		}
		availableFrom = parsed
	}

	updated, err := h.Properties.SetAvailability(r.Context(), landlordID, id, req.Availability, availableFrom)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		case errors.Is(err, propertydomain.ErrInvalidAvailability):
			writeError(w, http.StatusBadRequest, "invalid_availability", err.Error())
		default:
			h.log.InternalError("properties.availability: update failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*updated))
}

func (h *Handlers) SetPropertyUnits(w http.ResponseWriter, r *http.Request) {
	var req setUnitsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	updated, err := h.Properties.SetUnits(r.Context(), landlordID, id, req.TotalUnits, req.OccupiedUnits)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		case errors.Is(err, propertydomain.ErrOccupiedExceedsTotal):
			writeError(w, http.StatusBadRequest, "invalid_units", "occupied units exceed total units")
		default:
			h.log.InternalError("properties.units: update failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*updated))
}

func (h *Handlers) UploadPropertyImage(w http.ResponseWriter, r *http.Request) {
	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read image file")
		return
	}
	if len(data) > maxImageUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "image exceeds the upload limit")
		return
	}

	image, err := h.Properties.AddImage(r.Context(), landlordID, id, header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		case errors.Is(err, propertydomain.ErrInvalidImageType):
			writeError(w, http.StatusBadRequest, "invalid_image_type", "unsupported image file type")
		default:
			h.log.InternalError("properties.images: upload failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, imageResponse{ID: image.ID, URL: image.URL})
}

func (h *Handlers) CreatePublicLink(w http.ResponseWriter, r *http.Request) {
	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	link, err := h.Properties.CreatePublicLink(r.Context(), landlordID, id)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		case errors.Is(err, propertydomain.ErrIncomplete):
			writeError(w, http.StatusConflict, "property_incomplete", "incomplete listings cannot be shared")
		default:
			h.log.InternalError("properties.public_link: create failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"public_view_link": link})
}

func (h *Handlers) DeletePublicLink(w http.ResponseWriter, r *http.Request) {
	landlordID, user, ok := requireLandlordID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.Properties.DeletePublicLink(r.Context(), landlordID, id); err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			writeError(w, http.StatusNotFound, "property_not_found", "property not found")
		case errors.Is(err, propertydomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", "property belongs to another landlord")
		default:
			h.log.InternalError("properties.public_link: delete failed", err, "user_id", user.ID, "property_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PropertyMatches(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	page, err := parsePageParam(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}

	record, ok := h.loadPropertyForRead(w, r, user, id, "properties.matches")
	if !ok {
		return
	}
	if record.IsIncomplete {
		writeError(w, http.StatusConflict, "property_incomplete", "finish the listing before requesting matches")
		return
	}

	filter := tenantdomain.Filter{
		ExcludePets:         record.PrefPets == propertydomain.PrefReject,
		ExcludeNotInEET:     record.PrefNotInEET == propertydomain.PrefReject,
		ExcludeFailedCredit: record.PrefFailedCredit == propertydomain.PrefReject,
		ExcludeOnBenefits:   record.PrefOnBenefits == propertydomain.PrefReject,
		ExcludeOver35:       record.PrefOver35 == propertydomain.PrefReject,
		ExcludeNoGuarantor:  record.PrefNoGuarantor == propertydomain.PrefReject,
	}

	warning := ""
	var items []tenantdomain.Tenant
	if record.Postcode != nil {
		items, err = h.Tenants.FilterNearest(r.Context(), *record.Postcode, filter, page)
	} else {
		err = tenantdomain.ErrPostcodeNotFound
	}
	if errors.Is(err, tenantdomain.ErrPostcodeNotFound) {
		warning = "postcode could not be resolved; results are unsorted"
		items, err = h.Tenants.List(r.Context(), filter, page)
	}
	if err != nil {
		h.log.InternalError("properties.matches: query failed", err, "user_id", user.ID, "property_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]tenantResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toTenantResponse(item))
	}
	writeJSON(w, http.StatusOK, tenantListResponse{Items: response, Page: page, Warning: warning})
}
