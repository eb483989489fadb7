package landlord

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Notifier delivers the registration notification email. Implementations
// must not fail the registration: delivery problems are theirs to log.
type Notifier interface {
	LandlordRegistered(ctx context.Context, landlord *Landlord)
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Register creates a landlord record for a user without one. The uniqueness
// checks run inside a serializable transaction so two concurrent
// registrations with the same email cannot both win.
func (s *Service) Register(ctx context.Context, userID string, input RegisterInput) (*Landlord, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	record := newLandlord(input)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsEmailTaken(ctx, record.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailAlreadyRegistered
		}

		linked, err := tx.UserLandlordID(ctx, userID)
		if err != nil {
			return err
		}
		if linked != nil {
			return ErrUserAlreadyHasLandlord
		}

		if err := tx.Create(ctx, record); err != nil {
			return err
		}
		return tx.LinkUser(ctx, userID, record.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.LandlordRegistered(ctx, record)
	}
	return record, nil
}

// RegisterUnassigned creates a landlord with no user and a single-use invite
// link for out-of-band account linking. Used by admins.
func (s *Service) RegisterUnassigned(ctx context.Context, input RegisterInput) (*Landlord, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	record := newLandlord(input)
	link := uuid.NewString()
	record.InviteLink = &link

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsEmailTaken(ctx, record.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailAlreadyRegistered
		}
		return tx.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ClaimInvite links the presenting user to the landlord behind the invite
// link and consumes the link atomically.
func (s *Service) ClaimInvite(ctx context.Context, userID, link string) (*Landlord, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, ErrInviteNotFound
	}

	var claimed *Landlord
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByInviteLink(ctx, link)
		if err != nil {
			return err
		}

		linked, err := tx.UserLandlordID(ctx, userID)
		if err != nil {
			return err
		}
		if linked != nil {
			return ErrUserAlreadyHasLandlord
		}

		if err := tx.ClearInviteLink(ctx, record.ID); err != nil {
			return err
		}
		if err := tx.LinkUser(ctx, userID, record.ID); err != nil {
			return err
		}

		record.InviteLink = nil
		claimed = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// ApproveCharter marks a landlord charter-approved and assigns the
// membership id. Approving twice is rejected before any mutation, so
// ApprovalTime is never overwritten.
func (s *Service) ApproveCharter(ctx context.Context, landlordID, adminID, membershipID string) error {
	membershipID = strings.TrimSpace(membershipID)
	if membershipID == "" {
		return fmt.Errorf("membership id is required")
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByID(ctx, landlordID)
		if err != nil {
			return err
		}
		if record.IsCharterApproved {
			return ErrAlreadyApproved
		}

		taken, err := tx.IsMembershipIDTaken(ctx, membershipID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateMembershipID
		}

		return tx.SetApproval(ctx, landlordID, adminID, membershipID)
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (*Landlord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (*Landlord, error) {
	return s.repo.GetByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context, approved *bool) ([]Landlord, error) {
	return s.repo.List(ctx, approved)
}

// Update applies a partial profile update. An email change re-checks
// uniqueness against other landlords inside the transaction.
func (s *Service) Update(ctx context.Context, landlordID string, input UpdateInput) (*Landlord, error) {
	var updated *Landlord
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByID(ctx, landlordID)
		if err != nil {
			return err
		}

		if input.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*input.Email))
			if email == "" {
				return fmt.Errorf("email is required")
			}
			if email != record.Email {
				taken, err := tx.IsEmailTaken(ctx, email, record.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrEmailAlreadyRegistered
				}
				record.Email = email
			}
		}

		applyString(&record.Title, input.Title)
		applyString(&record.FirstName, input.FirstName)
		applyString(&record.LastName, input.LastName)
		applyString(&record.Phone, input.Phone)
		applyString(&record.CompanyName, input.CompanyName)
		applyString(&record.LandlordType, input.LandlordType)
		applyString(&record.AddressLine1, input.AddressLine1)
		applyString(&record.AddressLine2, input.AddressLine2)
		applyString(&record.TownOrCity, input.TownOrCity)
		applyString(&record.County, input.County)
		applyString(&record.Postcode, input.Postcode)

		if err := tx.Update(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func newLandlord(input RegisterInput) *Landlord {
	return &Landlord{
		ID:           uuid.NewString(),
		Title:        input.Title,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		CompanyName:  input.CompanyName,
		LandlordType: input.LandlordType,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		TownOrCity:   input.TownOrCity,
		County:       input.County,
		Postcode:     input.Postcode,
	}
}

func validateRegisterInput(input *RegisterInput) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" || input.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if input.Email == "" {
		return fmt.Errorf("email is required")
	}

	switch input.LandlordType {
	case "":
		input.LandlordType = TypeIndividual
	case TypeIndividual, TypeCompany:
	default:
		return fmt.Errorf("invalid landlord type %q", input.LandlordType)
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
