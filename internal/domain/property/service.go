package property

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostcodeResolver normalizes postcodes and lazily populates the coordinate
// cache. Implemented by the postcode service.
type PostcodeResolver interface {
	Format(raw string) string
	EnsureCached(ctx context.Context, raw string) error
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
}

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

type Service struct {
	repo      Repository
	postcodes PostcodeResolver
	images    ImageStore
}

func NewService(repo Repository, postcodes PostcodeResolver, images ImageStore) *Service {
	return &Service{repo: repo, postcodes: postcodes, images: images}
}

// Create starts a new draft listing from the address step.
func (s *Service) Create(ctx context.Context, landlordID string, input CreateInput) (*Property, error) {
	record := &Property{
		ID:            uuid.NewString(),
		LandlordID:    landlordID,
		AddressLine1:  strings.TrimSpace(input.AddressLine1),
		AddressLine2:  strings.TrimSpace(input.AddressLine2),
		TownOrCity:    strings.TrimSpace(input.TownOrCity),
		County:        strings.TrimSpace(input.County),
		CompletedStep: StepAddress,
		IsIncomplete:  true,
		Availability:  AvailabilityDraft,
		TotalUnits:    1,
	}
	if record.AddressLine1 == "" {
		return nil, fmt.Errorf("address line 1 is required")
	}

	s.applyPostcode(ctx, record, input.Postcode)

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateStep applies one listing step's fields and advances the completion
// counter. Steps can be revisited; the counter never moves backwards.
func (s *Service) UpdateStep(ctx context.Context, landlordID, id string, step int, input UpdateInput) (*Property, error) {
	if step < StepAddress || step > FinalStep {
		return nil, ErrInvalidStep
	}

	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return nil, err
	}

	switch step {
	case StepAddress:
		applyString(&record.AddressLine1, input.AddressLine1)
		applyString(&record.AddressLine2, input.AddressLine2)
		applyString(&record.TownOrCity, input.TownOrCity)
		applyString(&record.County, input.County)
		if input.Postcode != nil {
			s.applyPostcode(ctx, record, *input.Postcode)
		}
	case StepDetails:
		applyString(&record.Description, input.Description)
		if input.RentPerMonth != nil {
			record.RentPerMonth = input.RentPerMonth
		}
		if input.NumBedrooms != nil {
			record.NumBedrooms = input.NumBedrooms
		}
	case StepPreferences:
		if err := applyPreferences(record, input); err != nil {
			return nil, err
		}
	case StepAvailability:
		if input.Availability != nil {
			if err := setAvailability(record, *input.Availability, input.AvailableFrom); err != nil {
				return nil, err
			}
		}
		if input.TotalUnits != nil || input.OccupiedUnits != nil {
			total, occupied := record.TotalUnits, record.OccupiedUnits
			if input.TotalUnits != nil {
				total = *input.TotalUnits
			}
			if input.OccupiedUnits != nil {
				occupied = *input.OccupiedUnits
			}
			if err := setUnits(record, total, occupied); err != nil {
				return nil, err
			}
		}
	}

	if step > record.CompletedStep {
		record.CompletedStep = step
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Complete finishes the listing flow. The address must have resolved to a
// postcode and every step must have been visited.
func (s *Service) Complete(ctx context.Context, landlordID, id string) (*Property, error) {
	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return nil, err
	}

	if record.CompletedStep < FinalStep || record.Postcode == nil {
		return nil, ErrIncomplete
	}

	record.IsIncomplete = false
	if record.Availability == AvailabilityDraft {
		record.Availability = AvailabilityAvailable
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) GetOwned(ctx context.Context, landlordID, id string) (*Property, error) {
	return s.getOwned(ctx, landlordID, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string) ([]Property, error) {
	return s.repo.ListByLandlord(ctx, landlordID)
}

func (s *Service) ListAll(ctx context.Context) ([]Property, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) DeleteOwned(ctx context.Context, landlordID, id string) error {
	if _, err := s.getOwned(ctx, landlordID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) SetAvailability(ctx context.Context, landlordID, id, availability string, availableFrom *time.Time) (*Property, error) {
	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return nil, err
	}
	if err := setAvailability(record, availability, availableFrom); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// SetUnits rejects occupied > total before the database check constraint
// can fire.
func (s *Service) SetUnits(ctx context.Context, landlordID, id string, total, occupied int) (*Property, error) {
	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return nil, err
	}
	if err := setUnits(record, total, occupied); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// CreatePublicLink issues the property's sharing token, reusing an existing
// one rather than rotating it.
func (s *Service) CreatePublicLink(ctx context.Context, landlordID, id string) (string, error) {
	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return "", err
	}
	if record.PublicViewLink != nil {
		return *record.PublicViewLink, nil
	}

	link := uuid.NewString()
	record.PublicViewLink = &link
	if err := s.repo.Update(ctx, record); err != nil {
		return "", err
	}
	return link, nil
}

func (s *Service) DeletePublicLink(ctx context.Context, landlordID, id string) error {
	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return err
	}
	if record.PublicViewLink == nil {
		return nil
	}
	record.PublicViewLink = nil
	return s.repo.Update(ctx, record)
}

// GetByPublicLink serves the unauthenticated sharing view. Incomplete
// listings are never exposed, whatever the link.
func (s *Service) GetByPublicLink(ctx context.Context, id, link string) (*Property, error) {
	record, err := s.repo.GetByPublicLink(ctx, id, link)
	if err != nil {
		return nil, err
	}
	if record.IsIncomplete {
		return nil, ErrPropertyNotFound
	}
	return record, nil
}

// AddImage validates the upload by extension, stores it under a
// per-property folder, and records the returned URL.
func (s *Service) AddImage(ctx context.Context, landlordID, id, filename string, data []byte) (*Image, error) {
	record, err := s.getOwned(ctx, landlordID, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return nil, ErrInvalidImageType
	}

	imageID := uuid.NewString()
	url, err := s.images.Upload(ctx, record.ID, imageID+ext, data)
	if err != nil {
		return nil, err
	}

	image := &Image{ID: imageID, PropertyID: record.ID, URL: url}
	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *Service) getOwned(ctx context.Context, landlordID, id string) (*Property, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.LandlordID != landlordID {
		return nil, ErrNotOwner
	}
	return record, nil
}

func (s *Service) applyPostcode(ctx context.Context, record *Property, raw string) {
	formatted := s.postcodes.Format(raw)
	if formatted == "" {
		record.Postcode = nil
		return
	}
	record.Postcode = &formatted
	// Cache miss degrades to an unsorted match list later, so a geocoding
	// failure must not fail the listing step.
	_ = s.postcodes.EnsureCached(ctx, formatted)
}

func applyPreferences(record *Property, input UpdateInput) error {
	for _, pref := range []struct {
		dst *Preference
		src *Preference
	}{
		{&record.PrefPets, input.PrefPets},
		{&record.PrefNotInEET, input.PrefNotInEET},
		{&record.PrefFailedCredit, input.PrefFailedCredit},
		{&record.PrefOnBenefits, input.PrefOnBenefits},
		{&record.PrefOver35, input.PrefOver35},
		{&record.PrefNoGuarantor, input.PrefNoGuarantor},
	} {
		if pref.src == nil {
			continue
		}
		switch *pref.src {
		case PrefNone, PrefAccept, PrefReject:
			*pref.dst = *pref.src
		default:
			return fmt.Errorf("invalid preference %q", *pref.src)
		}
	}
	return nil
}

func setAvailability(record *Property, availability string, availableFrom *time.Time) error {
	switch availability {
	case AvailabilityAvailable, AvailabilityOccupied, AvailabilityUnavailable, AvailabilityDraft:
		record.Availability = availability
		record.AvailableFrom = nil
	case AvailabilityAvailableSoon:
		if availableFrom == nil {
			return fmt.Errorf("%w: available_soon requires a date", ErrInvalidAvailability)
		}
		record.Availability = availability
		record.AvailableFrom = availableFrom
	default:
		return ErrInvalidAvailability
	}
	return nil
}

func setUnits(record *Property, total, occupied int) error {
	if total < 1 || occupied < 0 {
		return fmt.Errorf("invalid unit counts")
	}
	if occupied > total {
		return ErrOccupiedExceedsTotal
	}
	record.TotalUnits = total
	record.OccupiedUnits = occupied
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
